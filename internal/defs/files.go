package defs

// Common file and directory names used across the project.
const (
	// SatchelDir is the metadata directory created in the target project.
	SatchelDir = ".satchel"

	// ManifestJSON is the satchel manifest file that tracks deployed bundle files.
	ManifestJSON = "manifest.json"

	// ClaudeDir is the Claude Code configuration directory.
	ClaudeDir = ".claude"

	// AgentsDir is the agent persona directory under .claude/.
	AgentsDir = "agents"

	// CommandsDir is the slash command directory under .claude/.
	CommandsDir = "commands"

	// SettingsJSON is the Claude Code project settings file.
	SettingsJSON = "settings.json"

	// ClaudeMD is the root Claude Code directive file.
	ClaudeMD = "CLAUDE.md"

	// MemoriesDir is the generated-documentation directory convention.
	MemoriesDir = "memories"

	// GitignoreFile is the repository ignore file satchel appends to.
	GitignoreFile = ".gitignore"
)

// TemplateSuffix marks bundle files that are rendered before deployment.
// The suffix is stripped from the destination path.
const TemplateSuffix = ".tmpl"
