/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import "github.com/invopop/jsonschema"

// Schema returns the JSON schema of the document produced by JSON.
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	return r.Reflect(&Report{})
}
