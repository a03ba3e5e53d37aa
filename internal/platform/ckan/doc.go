// Package ckan is a minimal client for the CKAN action API. It knows how to
// send one named action with a parameter mapping and how to decode the
// {success, result, error} response wrapper; it knows nothing about the
// legacy API the facade exposes.
package ckan
