// Package constants holds names and defaults shared across docsync.
package constants

// AppName is used for the config file name and log fields.
const AppName = "docsync"

// Default locations, relative to the working directory.
const (
	ConfigFile  = "docsync.toml"
	MappingFile = "config/docstringmanager.yaml"
	LogFile     = "logs/app.log"
	JournalFile = ".docsync/journal.db"
)

// TimeFormat is the timestamp layout for console and file logs.
const TimeFormat = "2006-01-02 15:04:05"

// SyntaxTheme is the Chroma style used to color diffs.
//
// Any Chroma style name works, for example monokai, dracula, nord,
// github-dark or solarized-light.
const SyntaxTheme = "github-dark"

// JournalRetentionDays is how long undo runs are kept.
const JournalRetentionDays = 30

// CompletionMessage is logged after a command finishes successfully.
const CompletionMessage = "Operações concluídas. Verifique o arquivo atualizado."
