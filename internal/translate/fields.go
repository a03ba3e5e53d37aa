package translate

import (
	"encoding/json"
	"fmt"
)

// FieldVersion selects which parameter names metadata records are sent with.
// Older backends take the content_* names, current ones the metadata_* names.
type FieldVersion string

const (
	FieldVersionMetadata FieldVersion = "metadata"
	FieldVersionContent  FieldVersion = "content"
)

// recordFields are the backend parameter names for one FieldVersion.
// An empty name means the version has no such parameter.
type recordFields struct {
	Standard        string
	StandardVersion string
	Content         string
	Raw             string
	URL             string
}

var recordFieldTable = map[FieldVersion]recordFields{
	FieldVersionMetadata: {
		Standard: "metadata_standard_id",
		Content:  "metadata_json",
		Raw:      "metadata_raw",
		URL:      "metadata_url",
	},
	FieldVersionContent: {
		Standard:        "schema_name",
		StandardVersion: "schema_version",
		Content:         "content_json",
		Raw:             "content_raw",
		URL:             "content_url",
	},
}

// Inbound names accepted for each record field, most specific first. Callers
// may use either convention regardless of the configured FieldVersion.
var (
	standardAliases = []string{"metadataType", "metadata_standard_id", "schema_name"}
	contentAliases  = []string{"jsonData", "metadata_json", "content_json"}
	rawAliases      = []string{"metadata_raw", "content_raw"}
	urlAliases      = []string{"metadata_url", "content_url"}
)

// ParseFieldVersion validates a configured version tag.
func ParseFieldVersion(tag string) (FieldVersion, error) {
	v := FieldVersion(tag)
	if _, ok := recordFieldTable[v]; !ok {
		return "", fmt.Errorf("unknown field version %q", tag)
	}
	return v, nil
}

func (v FieldVersion) fields() recordFields {
	if f, ok := recordFieldTable[v]; ok {
		return f
	}
	return recordFieldTable[FieldVersionMetadata]
}

// popContent removes the record content from payload. Content that arrived
// as a nested JSON value is re-encoded, since the backend stores a string.
func popContent(p Payload) (string, error) {
	var found any
	for _, key := range contentAliases {
		v, ok := p.PopRaw(key)
		if !ok || found != nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		found = v
	}

	switch v := found.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", &ValidationError{Message: "jsonData is not valid JSON"}
		}
		return string(encoded), nil
	}
}
