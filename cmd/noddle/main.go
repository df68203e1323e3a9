// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Noddle is a command line front end for the noddle stack and canvas
// libraries: it builds stack files, inspects their components, and runs
// headless canvas interaction sessions.
package main

import (
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
