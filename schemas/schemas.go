// Package schemas embeds the JSON Schema documents that describe the data
// exchanged with the resume service.
package schemas

import "embed"

// SubmissionPayload is the file name of the payload schema inside FS.
const SubmissionPayload = "submission_payload.schema.json"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
