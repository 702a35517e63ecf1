// Package models contains the GORM persistence models of the admin shell.
// Models carry the table mapping and convert to and from domain types, so the
// domain packages stay free of ORM tags.
package models
