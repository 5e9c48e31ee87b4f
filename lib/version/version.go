// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

// Package version records the writer version stamped into archive
// footers and reported by the CLI.
package version

// Number is the semantic version of this release.
const Number = "1.0.0"

// String returns the identifier written into the `version` field of
// archive footers: the tool name and release number. Readers treat it
// as opaque.
func String() string {
	return "gxd/" + Number
}
