// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/geochile/mapeo/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
