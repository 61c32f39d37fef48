package system

import "context"

// IdentityStore queries and mutates the OS user/group database.
type IdentityStore interface {
	GroupExists(ctx context.Context, name string) bool
	UserExists(ctx context.Context, name string) bool
	CreateSystemGroup(ctx context.Context, name string) error
	CreateSystemUser(ctx context.Context, name, group string) error
}

// HostIdentity uses getent/groupadd/useradd on the local host.
type HostIdentity struct {
	Run Runner
}

func (h *HostIdentity) GroupExists(ctx context.Context, name string) bool {
	_, err := h.Run.Output(ctx, "getent", "group", name)
	return err == nil
}

func (h *HostIdentity) UserExists(ctx context.Context, name string) bool {
	_, err := h.Run.Output(ctx, "getent", "passwd", name)
	return err == nil
}

func (h *HostIdentity) CreateSystemGroup(ctx context.Context, name string) error {
	return h.Run.Run(ctx, "groupadd", "--system", name)
}

// CreateSystemUser creates a no-login account without a home directory,
// attached to an existing group.
func (h *HostIdentity) CreateSystemUser(ctx context.Context, name, group string) error {
	return h.Run.Run(ctx, "useradd",
		"--system",
		"--no-create-home",
		"--shell", "/usr/sbin/nologin",
		"--gid", group,
		name,
	)
}
