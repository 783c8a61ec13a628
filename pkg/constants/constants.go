// Package constants provides shared constants used throughout the tonematch codebase.
// This includes record field names, archive layout, thresholds, file permissions
// and display limits that should be consistent across the application.
package constants

import "time"

// Record field constants name the well-known fields of a data_form record.
const (
	// DefaultKeyField is the record field holding the word reference key
	DefaultKeyField = "Reference"

	// DefaultGroupField is the record field holding a speaker's tone group number
	DefaultGroupField = "SurfaceMelodyGroup"

	// DefaultSoundFileField is the record field naming the audio asset
	DefaultSoundFileField = "SoundFile"

	// DefaultWrittenFormField is the field checked by default when building bundles
	DefaultWrittenFormField = "Phonetic"
)

// Group definition column constants name the columns of the tone group CSV.
const (
	// DefaultGroupColumn holds the group number of a tone group row
	DefaultGroupColumn = "Tone Group"

	// DefaultExemplarFormColumn holds the written form of the exemplar word
	DefaultExemplarFormColumn = "Written Form"

	// DefaultExemplarRefColumn holds the reference number of the exemplar word
	DefaultExemplarRefColumn = "Reference Number"
)

// Record source constants describe the XML document layout.
const (
	// RootElement is the top-level grouping element of a record source
	RootElement = "phon_data"

	// RecordElement is the element wrapping one record
	RecordElement = "data_form"

	// AttributePrefix marks attribute-derived record fields
	AttributePrefix = "@_"
)

// Archive constants describe speaker result archives and bundles.
const (
	// ArchiveExtension is the extension of speaker result archives
	ArchiveExtension = ".zip"

	// CSVMemberPattern matches the tone group table inside a speaker archive
	CSVMemberPattern = "**/*.csv"

	// XMLMemberPattern matches the record source inside a speaker archive
	XMLMemberPattern = "**/*.xml"

	// BundleDataMember is the record source name inside a bundle
	BundleDataMember = "data.xml"

	// BundleSettingsMember is the settings file name inside a bundle
	BundleSettingsMember = "settings.json"

	// BundleAudioDir is the directory holding audio assets inside a bundle
	BundleAudioDir = "audio"

	// DefaultBundleName is the suggested output file name for a bundle
	DefaultBundleName = "tone_matching_bundle.zip"
)

// Analysis constants
const (
	// DefaultMergeThreshold is the overlap percentage a group pair must exceed
	DefaultMergeThreshold = 80.0

	// DefaultConcurrency scans speaker pairs sequentially
	DefaultConcurrency = 1

	// MaxConcurrency caps the speaker pair fan-out
	MaxConcurrency = 64

	// MaxConcurrentArchives is the maximum number of archives loaded at once
	MaxConcurrentArchives = 8
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Display constants
const (
	// MaxListedMissingAssets is how many unresolved assets are listed before truncating
	MaxListedMissingAssets = 10

	// MaxExemplarLength truncates long exemplar labels in tables
	MaxExemplarLength = 40
)

// Timeout constants
const (
	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout bounds graceful shutdown after a failed command
	ShutdownTimeout = 5 * time.Second
)
