// Package directory holds user records and the sponsor relation between them.
//
// Users live in an arena indexed by ID; the sponsor relation is a foreign key
// into that arena, so walking the upline is a sequence of map lookups.
package directory

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bitfsorg/libreferral-go/money"
)

// SponsorMode controls registration when the named sponsor does not exist.
type SponsorMode string

const (
	// SponsorStrict rejects the registration with ErrUnresolvedSponsor.
	SponsorStrict SponsorMode = "strict"
	// SponsorLenient places the new user directly under the root.
	SponsorLenient SponsorMode = "lenient"
)

// ParseSponsorMode converts a configuration string to a SponsorMode.
func ParseSponsorMode(s string) (SponsorMode, error) {
	switch SponsorMode(strings.ToLower(strings.TrimSpace(s))) {
	case SponsorStrict:
		return SponsorStrict, nil
	case SponsorLenient:
		return SponsorLenient, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSponsorMode, s)
}

// maxIDAttempts bounds retries when the ID generator collides.
const maxIDAttempts = 8

// Directory is the user arena. It is not safe for concurrent use; callers
// serialize access around a single load/apply/save cycle.
type Directory struct {
	Mode   SponsorMode
	Now    func() time.Time // defaults to time.Now
	NewID  func() string    // defaults to uuid.NewString
	Logger *slog.Logger     // defaults to slog.Default()

	users  []*User
	byID   map[string]*User
	byName map[string]*User
	rootID string
}

// New indexes the given users. The slice order is the insertion order used
// by DirectReports and Users. The first user without a sponsor is the root.
func New(users []*User, mode SponsorMode) (*Directory, error) {
	d := &Directory{
		Mode:   mode,
		users:  make([]*User, 0, len(users)),
		byID:   make(map[string]*User, len(users)),
		byName: make(map[string]*User, len(users)),
	}
	for _, u := range users {
		if u == nil {
			continue
		}
		if _, ok := d.byID[u.ID]; ok {
			return nil, fmt.Errorf("%w: id %q", ErrDuplicateUser, u.ID)
		}
		if _, ok := d.byName[u.Username]; ok {
			return nil, fmt.Errorf("%w: username %q", ErrDuplicateUser, u.Username)
		}
		d.insert(u)
	}
	return d, nil
}

func (d *Directory) insert(u *User) {
	d.users = append(d.users, u)
	d.byID[u.ID] = u
	d.byName[u.Username] = u
	if d.rootID == "" && u.IsRoot() {
		d.rootID = u.ID
	}
}

func (d *Directory) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

func (d *Directory) newID() string {
	if d.NewID != nil {
		return d.NewID()
	}
	return uuid.NewString()
}

func (d *Directory) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Register adds a new member under sponsorID.
func (d *Directory) Register(username, password, name, sponsorID string) (*User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if _, ok := d.byName[username]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateUsername, username)
	}

	if _, ok := d.byID[sponsorID]; !ok {
		if d.Mode == SponsorStrict || d.rootID == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedSponsor, sponsorID)
		}
		d.logger().Warn("sponsor not found, placing user under root",
			"component", "directory", "sponsor_id", sponsorID, "root_id", d.rootID)
		sponsorID = d.rootID
	}

	id, err := d.allocateID()
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:         id,
		Username:   username,
		Credential: HashCredential(id, password),
		Name:       name,
		SponsorID:  sponsorID,
		Role:       RoleMember,
		JoinedAt:   d.now(),
	}
	d.insert(u)
	return u.Clone(), nil
}

func (d *Directory) allocateID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := d.newID()
		if _, taken := d.byID[id]; id != "" && !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: could not allocate a unique id", ErrDuplicateUser)
}

// Authenticate returns the user when username and password both match.
func (d *Directory) Authenticate(username, password string) (*User, error) {
	u, ok := d.byName[username]
	if !ok {
		// Burn the same work as a real check.
		_ = HashCredential("", password)
		return nil, ErrInvalidCredentials
	}
	if !u.checkCredential(password) {
		return nil, ErrInvalidCredentials
	}
	return u.Clone(), nil
}

// Get returns a copy of the user with the given ID. Balances change only
// through Credit.
func (d *Directory) Get(id string) (*User, bool) {
	u, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return u.Clone(), true
}

// GetByUsername returns a copy of the user with the given username.
func (d *Directory) GetByUsername(username string) (*User, bool) {
	u, ok := d.byName[username]
	if !ok {
		return nil, false
	}
	return u.Clone(), true
}

// Root returns the root user, if one exists.
func (d *Directory) Root() (*User, bool) {
	return d.Get(d.rootID)
}

// Len returns the number of users.
func (d *Directory) Len() int { return len(d.users) }

// Users returns copies of all users in insertion order.
func (d *Directory) Users() []*User {
	out := make([]*User, len(d.users))
	for i, u := range d.users {
		out[i] = u.Clone()
	}
	return out
}

// DirectReports returns the users sponsored by userID, in insertion order.
func (d *Directory) DirectReports(userID string) []*User {
	var out []*User
	for _, u := range d.users {
		if u.SponsorID != "" && u.SponsorID == userID {
			out = append(out, u.Clone())
		}
	}
	return out
}

// ResolveUpline returns up to maxLevels sponsors above userID, nearest first.
//
// The walk stops at the root, at a sponsor ID that does not resolve, or at
// an ID already visited. Stored data is external input, so a cyclic chain
// ends the walk instead of looping.
func (d *Directory) ResolveUpline(userID string, maxLevels int) []*User {
	u, ok := d.byID[userID]
	if !ok || maxLevels <= 0 {
		return nil
	}

	visited := map[string]struct{}{u.ID: {}}
	upline := make([]*User, 0, maxLevels)
	next := u.SponsorID
	for len(upline) < maxLevels && next != "" {
		if _, seen := visited[next]; seen {
			d.logger().Warn("sponsor cycle detected", "component", "directory", "user_id", userID, "sponsor_id", next)
			break
		}
		sponsor, ok := d.byID[next]
		if !ok {
			break
		}
		visited[next] = struct{}{}
		upline = append(upline, sponsor.Clone())
		next = sponsor.SponsorID
	}
	return upline
}

// Credit adds amount to the user's balance and lifetime earnings together.
func (d *Directory) Credit(userID string, amount money.Amount) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeCredit, amount)
	}
	u, ok := d.byID[userID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownUser, userID)
	}
	balance, err := u.Balance.CheckedAdd(amount)
	if err != nil {
		return fmt.Errorf("directory: credit %q: %w", userID, err)
	}
	earnings, err := u.TotalEarnings.CheckedAdd(amount)
	if err != nil {
		return fmt.Errorf("directory: credit %q: %w", userID, err)
	}
	u.Balance = balance
	u.TotalEarnings = earnings
	return nil
}

// CheckForest verifies the sponsor relation: exactly one root, every sponsor
// resolves, and no chain revisits a user. It reports the first problem found.
func (d *Directory) CheckForest() error {
	roots := 0
	for _, u := range d.users {
		if u.IsRoot() {
			roots++
			continue
		}
		if _, ok := d.byID[u.SponsorID]; !ok {
			return fmt.Errorf("%w: user %q has unknown sponsor %q", ErrBrokenForest, u.ID, u.SponsorID)
		}
	}
	if roots != 1 {
		return fmt.Errorf("%w: %d roots", ErrBrokenForest, roots)
	}

	// Users whose chain is known to reach the root.
	reaches := map[string]bool{d.rootID: true}
	for _, u := range d.users {
		path := []string{}
		onPath := map[string]bool{}
		cur := u
		for !reaches[cur.ID] {
			if onPath[cur.ID] {
				return fmt.Errorf("%w: cycle through %q", ErrBrokenForest, cur.ID)
			}
			onPath[cur.ID] = true
			path = append(path, cur.ID)
			cur = d.byID[cur.SponsorID]
		}
		for _, id := range path {
			reaches[id] = true
		}
	}
	return nil
}
