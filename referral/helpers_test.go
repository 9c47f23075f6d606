package referral

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libreferral-go/config"
	"github.com/bitfsorg/libreferral-go/logging"
	"github.com/bitfsorg/libreferral-go/state"
)

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// sequentialIDs returns a generator yielding prefix1, prefix2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func memoryConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Store = config.StoreMemory
	cfg.DataDir = ""
	return cfg
}

// newTestService opens an in-memory service with a fixed clock and
// predictable IDs.
func newTestService(t *testing.T, cfg config.Config, opts ...Option) *Service {
	t.Helper()
	base := []Option{
		WithLogger(logging.Discard()),
		WithClock(func() time.Time { return testEpoch }),
		WithIDGenerator(sequentialIDs("id")),
	}
	s, err := Open(cfg, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// buildChain registers root -> A -> B -> C -> D -> E and returns the IDs by
// display name.
func buildChain(t *testing.T, s *Service) map[string]string {
	t.Helper()
	ids := map[string]string{"root": state.RootID}
	sponsor := state.RootID
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		u, err := s.Register("user"+name, "pw"+name, name, sponsor)
		require.NoError(t, err)
		ids[name] = u.ID
		sponsor = u.ID
	}
	return ids
}

func balanceOf(t *testing.T, s *Service, id string) (balance, earnings int64) {
	t.Helper()
	u, err := s.User(id)
	require.NoError(t, err)
	return int64(u.Balance), int64(u.TotalEarnings)
}
