// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package data embeds the PostgreSQL migrations shipped with the binary.
package data

import "embed"

// Migrations holds the versioned library schema under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
