package database

import "time"

// LinkedFolder is the remembered folder. Only its path is kept; the folder
// is reopened and its permission checked again before every use.
type LinkedFolder struct {
	Path     string
	LinkedAt time.Time
}
