package translate

import (
	"strings"

	"github.com/saeondata/jsonapi-facade/internal/platform/ckan"
)

// Backend actions used by the facade.
const (
	ActionMetadataRecordCreate     = "metadata_record_create"
	ActionMetadataRecordList       = "metadata_record_list"
	ActionMetadataRecordShow       = "metadata_record_show"
	ActionOrganizationCreate       = "organization_create"
	ActionOrganizationDelete       = "organization_delete"
	ActionOrganizationList         = "organization_list"
	ActionOrganizationShow         = "organization_show"
	ActionMetadataCollectionCreate = "metadata_collection_create"
	ActionUserList                 = "user_list"
	ActionUserShow                 = "user_show"
)

// Request fields read by the builders.
const (
	FieldTypes         = "types"
	FieldTitle         = "title"
	FieldUserID        = "user_id"
	FieldSchemaVersion = "schema_version"
)

// TypeInstitution is the discriminator value institution listings expect.
const TypeInstitution = "Institution"

// BuildCreateMetadata maps a legacy metadata upload onto metadata_record_create.
func BuildCreateMetadata(version FieldVersion, path PathParams, p Payload) (ckan.ActionCall, error) {
	if path.Institution == "" {
		return ckan.ActionCall{}, expectParam("institution")
	}
	if path.Repository == "" {
		return ckan.ActionCall{}, expectParam("repository")
	}

	standard := p.PopFirst(standardAliases...)
	if standard == "" {
		return ckan.ActionCall{}, expectParam("metadataType")
	}

	content, err := popContent(p)
	if err != nil {
		return ckan.ActionCall{}, err
	}
	if content == "" {
		return ckan.ActionCall{}, expectParam("jsonData")
	}

	names := version.fields()
	params := ckan.Params{
		"owner_org":              path.Institution,
		"metadata_collection_id": DeriveRepositoryID(path.Institution, path.Repository),
		"infrastructures":        []any{},
		names.Standard:           standard,
		names.Content:            content,
		names.Raw:                p.PopFirst(rawAliases...),
		names.URL:                p.PopFirst(urlAliases...),
	}

	standardVersion := p.Pop(FieldSchemaVersion)
	if names.StandardVersion != "" {
		params[names.StandardVersion] = standardVersion
	}

	return ckan.NewActionCall(ActionMetadataRecordCreate, params), nil
}

// BuildGetMetadata lists the records of one repository.
func BuildGetMetadata(path PathParams) (ckan.ActionCall, error) {
	if path.Institution == "" {
		return ckan.ActionCall{}, expectParam("institution")
	}
	if path.Repository == "" {
		return ckan.ActionCall{}, expectParam("repository")
	}

	return ckan.NewActionCall(ActionMetadataRecordList, ckan.Params{
		"owner_org":              path.Institution,
		"metadata_collection_id": DeriveRepositoryID(path.Institution, path.Repository),
		"all_fields":             true,
	}), nil
}

// BuildCreateInstitution maps a new institution onto organization_create. The
// organization name is derived from the title.
func BuildCreateInstitution(p Payload) (ckan.ActionCall, error) {
	title := p.Pop(FieldTitle)
	if strings.TrimSpace(title) == "" {
		return ckan.ActionCall{}, expectParam(FieldTitle)
	}

	return ckan.NewActionCall(ActionOrganizationCreate, ckan.Params{
		"name":  Slugify(title),
		"title": title,
	}), nil
}

// BuildDefaultRepository creates the collection every institution gets.
func BuildDefaultRepository(institution, title string) ckan.ActionCall {
	return ckan.NewActionCall(ActionMetadataCollectionCreate, ckan.Params{
		"name":      institution + RepositorySuffix,
		"title":     title,
		"owner_org": institution,
	})
}

// BuildDeleteInstitution removes an organization by id or name.
func BuildDeleteInstitution(id string) ckan.ActionCall {
	return ckan.NewActionCall(ActionOrganizationDelete, ckan.Params{"id": id})
}

// BuildListInstitutions checks the listing discriminator and lists organizations.
func BuildListInstitutions(p Payload) (ckan.ActionCall, error) {
	if p.Pop(FieldTypes) != TypeInstitution {
		return ckan.ActionCall{}, expectParamValue(FieldTypes, TypeInstitution)
	}

	return ckan.NewActionCall(ActionOrganizationList, ckan.Params{"all_fields": true}), nil
}

// BuildListUsers lists users. The optional user_id filter is applied to the
// result by FilterByName, not sent to the backend.
func BuildListUsers(p Payload) (ckan.ActionCall, []string) {
	var names []string
	if raw := p.Pop(FieldUserID); raw != "" {
		for _, name := range strings.Split(raw, "|") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}

	return ckan.NewActionCall(ActionUserList, ckan.Params{"all_fields": true}), names
}

// BuildGetUser fetches one user by name or id.
func BuildGetUser(path PathParams) (ckan.ActionCall, error) {
	if path.Username == "" {
		return ckan.ActionCall{}, expectParam("username")
	}

	return ckan.NewActionCall(ActionUserShow, ckan.Params{"id": path.Username}), nil
}

// AttachContextPaths sets context_path on every organization record to the
// legacy URL of that institution under baseURL. Records are copied.
func AttachContextPaths(result any, baseURL string) any {
	records, ok := result.([]any)
	if !ok {
		return result
	}

	base := strings.TrimRight(baseURL, "/")
	out := make([]any, 0, len(records))
	for _, record := range records {
		org, isMap := record.(map[string]any)
		if !isMap {
			out = append(out, record)
			continue
		}
		cp := make(map[string]any, len(org)+1)
		for k, v := range org {
			cp[k] = v
		}
		cp["context_path"] = base + "/Institutions/" + stringValue(org["name"])
		out = append(out, cp)
	}
	return out
}

// FilterByName keeps the records whose name is in names. An empty names
// keeps everything.
func FilterByName(result any, names []string) any {
	records, ok := result.([]any)
	if !ok || len(names) == 0 {
		return result
	}

	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}

	out := make([]any, 0, len(records))
	for _, record := range records {
		m, isMap := record.(map[string]any)
		if !isMap {
			continue
		}
		if _, keep := wanted[stringValue(m["name"])]; keep {
			out = append(out, m)
		}
	}
	return out
}
