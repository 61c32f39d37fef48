// Package provision brings a host from "bot not installed" to "bot running
// under supervision". Each step is an idempotent reconciliation over the
// desired-state values below; external collaborators are narrow interfaces
// from internal/system so the logic runs against fakes in tests.
package provision

import (
	"path/filepath"
	"strconv"

	"imgbotctl/internal/envfile"
)

// InstallTarget fixes where the bot lives and which identity runs it.
// EnvDir and UnitDir are the supervisor's well-known directories; they are
// fields (not constants) so tests can point them at a scratch tree.
type InstallTarget struct {
	ServiceName  string
	WorkDir      string
	User         string
	Group        string
	ArtifactName string
	EnvDir       string
	UnitDir      string
}

// DefaultTarget is the production layout.
func DefaultTarget() InstallTarget {
	return InstallTarget{
		ServiceName:  "imagebot",
		WorkDir:      "/opt/imagebot",
		User:         "imagebot",
		Group:        "imagebot",
		ArtifactName: "bot.py",
		EnvDir:       "/etc/default",
		UnitDir:      "/etc/systemd/system",
	}
}

func (t InstallTarget) UnitName() string {
	return t.ServiceName + ".service"
}

func (t InstallTarget) ArtifactPath() string {
	return filepath.Join(t.WorkDir, t.ArtifactName)
}

func (t InstallTarget) EnvFilePath() string {
	return filepath.Join(t.EnvDir, t.ServiceName)
}

func (t InstallTarget) UnitPath() string {
	return filepath.Join(t.UnitDir, t.UnitName())
}

// DBPath is where the bot keeps its sqlite database, inside the work
// directory so the service identity can write it.
func (t InstallTarget) DBPath() string {
	return filepath.Join(t.WorkDir, "bot_users.db")
}

// RuntimeEnvironment describes the interpreter and the isolated environment
// built under the work directory. Python holds the absolute path actually
// resolved after package installation, not an assumed location.
type RuntimeEnvironment struct {
	Python         string
	VenvDir        string
	SystemPackages []string
	PipPackages    []string
}

// DefaultRuntime lists what the bot needs: a python3 toolchain from the host
// package manager and the bot's two libraries in the venv.
func DefaultRuntime(workDir string) RuntimeEnvironment {
	return RuntimeEnvironment{
		VenvDir:        filepath.Join(workDir, "venv"),
		SystemPackages: []string{"python3", "python3-pip", "python3-venv"},
		PipPackages:    []string{"python-telegram-bot", "aiohttp"},
	}
}

func (r RuntimeEnvironment) VenvPython() string {
	return filepath.Join(r.VenvDir, "bin", "python")
}

// DefaultModel is persisted when the operator leaves the model prompt blank.
const DefaultModel = "gpt-4o-mini"

// SecretBundle carries the operator-supplied configuration. It is collected
// once per run and persisted to the environment file; it is never stored
// anywhere else.
type SecretBundle struct {
	Token   string
	APIKey  string
	AdminID int64
	Model   string
}

// EnvPairs lays out the bundle in the order the environment file is written.
func (s SecretBundle) EnvPairs(dbPath string) []envfile.Pair {
	return []envfile.Pair{
		{Key: "TELEGRAM_TOKEN", Value: s.Token},
		{Key: "OPENAI_API_KEY", Value: s.APIKey},
		{Key: "ADMIN_TELEGRAM_ID", Value: strconv.FormatInt(s.AdminID, 10)},
		{Key: "MODEL", Value: s.Model},
		{Key: "BOT_DB", Value: dbPath},
	}
}
