// Package status classifies raw workload status strings into a closed set of
// categories and derives the icon used to render them.
//
// Classification is a pure function of its input: the same raw string always
// yields the same category and icon.
package status
