// Package db embeds the SQL schema applied on startup.
package db

import _ "embed"

// Schema holds the DDL for the storefront tables and the order number
// sequence.
//
//go:embed migrations/001_schema.sql
var Schema string
