package model

// Package model defines domain data structures shared across the app: video
// metadata, playlist filters, transcript segments and results, download job
// state, and the classified error taxonomy.
