// Package unit renders systemd service units.
package unit

import "fmt"

// Definition describes a long-running supervised service. Secrets are not
// embedded: the unit references EnvironmentFile, which carries its own
// permissions, so the rendered unit is safe to install world-readable.
type Definition struct {
	Name             string // unit name without the .service suffix
	Description      string
	User             string
	Group            string
	WorkingDirectory string
	EnvironmentFile  string
	ExecStart        string
	Restart          string // always | on-failure | no
	RestartSec       int    // seconds
}

// FileName returns the unit file name, e.g. "imagebot.service".
func (d Definition) FileName() string {
	return d.Name + ".service"
}

// Render produces the unit file contents.
func (d Definition) Render() string {
	return fmt.Sprintf(`[Unit]
Description=%s
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
User=%s
Group=%s
WorkingDirectory=%s
EnvironmentFile=%s
ExecStart=%s
Restart=%s
RestartSec=%d

[Install]
WantedBy=multi-user.target
`,
		d.Description,
		d.User,
		d.Group,
		d.WorkingDirectory,
		d.EnvironmentFile,
		d.ExecStart,
		d.Restart,
		d.RestartSec,
	)
}
