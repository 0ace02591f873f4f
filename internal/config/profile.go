package config

import "github.com/uapcse/pubscan/internal/extract"

// Profile holds heuristic overrides for a single publication source.
// Citation sites differ in how they render entries: some prepend citation
// counts to the year line, some use additional metric labels. A profile
// tunes the extraction constants per source without touching the defaults.
type Profile struct {
	// YearMin overrides the lower bound of the accepted year range.
	// If zero, the default is used.
	YearMin int `yaml:"yearMin,omitempty"`

	// YearMax overrides the upper bound of the accepted year range.
	// If zero, the default is used.
	YearMax int `yaml:"yearMax,omitempty"`

	// MinTitleLen overrides the minimum length for a line to count as
	// title content. If zero, the default is used.
	MinTitleLen int `yaml:"minTitleLen,omitempty"`

	// MetadataPrefixes replaces the metric label list for this source.
	// If empty, the default list (ABS, ABDC, SJR, SNIP, CiteScore) is used.
	MetadataPrefixes []string `yaml:"metadataPrefixes,omitempty"`
}

// File represents the structure of the .pubscan configuration file.
type File struct {
	// Defaults contains the profile applied to all sources unless
	// overridden in the source-specific profile.
	Defaults Profile `yaml:"defaults,omitempty"`

	// Sources maps source labels to their heuristic profiles.
	// Keys match the --source flag or the input file's base name.
	Sources map[string]Profile `yaml:"sources,omitempty"`
}

// GetProfile returns the profile for a source label.
// It merges the source-specific profile over the file's defaults,
// field by field.
func (cf *File) GetProfile(source string) Profile {
	result := cf.Defaults

	if p, ok := cf.Sources[source]; ok {
		if p.YearMin != 0 {
			result.YearMin = p.YearMin
		}
		if p.YearMax != 0 {
			result.YearMax = p.YearMax
		}
		if p.MinTitleLen != 0 {
			result.MinTitleLen = p.MinTitleLen
		}
		if len(p.MetadataPrefixes) > 0 {
			result.MetadataPrefixes = p.MetadataPrefixes
		}
	}

	return result
}

// apply layers the profile's non-zero fields over h and returns the result.
func (p Profile) apply(h extract.Heuristics) extract.Heuristics {
	if p.YearMin != 0 {
		h.YearMin = p.YearMin
	}
	if p.YearMax != 0 {
		h.YearMax = p.YearMax
	}
	if p.MinTitleLen != 0 {
		h.MinTitleLen = p.MinTitleLen
	}
	if len(p.MetadataPrefixes) > 0 {
		h.MetadataPrefixes = p.MetadataPrefixes
	}
	return h
}
