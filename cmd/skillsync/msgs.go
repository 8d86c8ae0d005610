package main

// Short messages (one-liners)
const (
	MsgRootShort = "Sync skill packages across AI tool configurations"
	MsgRootLong  = `skillsync keeps a single copy of each skill package in a central
repository and links it into the configuration directories of the AI
tools you use (Claude Code, Gemini CLI, Cursor, ...), at global or
per-project scope.`

	MsgInstallShort   = "Install a skill from a directory, archive, or git URL"
	MsgUninstallShort = "Remove a skill's links and optionally its repository copy"
	MsgListShort      = "List skills and their per-platform state"
	MsgUpdateShort    = "Check git-backed skills for updates and apply them"
	MsgInfoShort      = "Show a skill's SKILL.md"
	MsgVersionShort   = "Print version information"

	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Preview changes without executing them"
	MsgFlagForce    = "Replace foreign links and shadowed directories without asking"
	MsgFlagFormat   = "Output format: auto, term, text"
	MsgFlagPlatform = "Platform(s) to act on (repeatable; default: detected)"
	MsgFlagLocal    = "Act at project scope (links under the current directory)"
	MsgFlagGlobal   = "Act at user scope (links under the home directory)"
	MsgFlagRemove   = "Also remove the skill's copy from the repository"
	MsgFlagCheck    = "Only report upstream state, do not pull"

	MsgInstallLong = `Install copies the source into the central repository and links it
into the skills directory of each selected platform.

The source may be a local directory, a .skill or .zip archive, or
a git URL (cloned so it can be updated later). Occupied targets
(a link to somewhere else, or a real directory) are skipped unless
--force is given.`

	MsgUninstallLong = `Uninstall removes the skill's links from the selected platforms.
Real directories and links pointing elsewhere are only removed with
--force. With --from-repo the repository copy goes too, and the
skill's metadata entry is dropped once every target is gone.`

	MsgUpdateLong = `Update fetches the upstream state of every git-backed skill in the
repository concurrently, then fast-forwards the ones that are behind.
Skills with diverged local history are reported and left untouched.
With --check no pull happens.`

	MsgExampleInstall = `  skillsync install ~/skills/code-review
  skillsync install https://github.com/acme/review-skill.git -p claude -p cursor
  skillsync install bundle.skill --local`
)
