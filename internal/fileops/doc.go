// Package fileops performs the filesystem side effects of a scan: moving files
// into extension-based category folders and removing files the user selected
// as redundant duplicates.
package fileops
