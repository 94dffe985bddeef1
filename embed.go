package bento

import "embed"

// EmbeddedAssets contains static assets shipped with the site:
// site.css, signup.js
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
