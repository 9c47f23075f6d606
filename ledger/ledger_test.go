package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libreferral-go/money"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testTx(n int, buyer string, receivers ...string) *Transaction {
	tx := &Transaction{
		ID:          fmt.Sprintf("tx%d", n),
		BuyerID:     buyer,
		BuyerName:   "Buyer " + buyer,
		ProductID:   "p1",
		ProductName: "Startpakke",
		Amount:      money.Whole(1000),
		Timestamp:   t0.Add(time.Duration(n) * time.Minute),
		Commissions: []CommissionEntry{},
	}
	for i, r := range receivers {
		tx.Commissions = append(tx.Commissions, CommissionEntry{
			Level:      i + 1,
			ReceiverID: r,
			Amount:     money.Whole(10),
			Rate:       money.Pct(1),
		})
	}
	return tx
}

func filled(t *testing.T) *Ledger {
	t.Helper()
	l, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, l.Append(testTx(1, "a", "root")))
	require.NoError(t, l.Append(testTx(2, "b", "a", "root")))
	require.NoError(t, l.Append(testTx(3, "root")))
	return l
}

func ids(txs []*Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

// ---------------------------------------------------------------------------
// Append / reads
// ---------------------------------------------------------------------------

func TestAppend_ReverseChronologicalReads(t *testing.T) {
	l := filled(t)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []string{"tx3", "tx2", "tx1"}, ids(l.ListAll()))
	assert.Equal(t, []string{"tx1", "tx2", "tx3"}, ids(l.Transactions()), "storage order is append order")
}

func TestListFor(t *testing.T) {
	l := filled(t)
	assert.Equal(t, []string{"tx2", "tx1"}, ids(l.ListFor("a")), "buyer of tx1, receiver in tx2")
	assert.Equal(t, []string{"tx3", "tx2", "tx1"}, ids(l.ListFor("root")))
	assert.Equal(t, []string{"tx2"}, ids(l.ListFor("b")))
	assert.Empty(t, l.ListFor("nobody"))
}

func TestAppend_Errors(t *testing.T) {
	l := filled(t)
	assert.ErrorIs(t, l.Append(nil), ErrNilTransaction)
	assert.ErrorIs(t, l.Append(&Transaction{}), ErrMissingID)
	assert.ErrorIs(t, l.Append(testTx(1, "x")), ErrDuplicateTransaction)
	assert.Equal(t, 3, l.Len())
}

func TestGet(t *testing.T) {
	l := filled(t)
	tx, err := l.Get("tx2")
	require.NoError(t, err)
	assert.Equal(t, "b", tx.BuyerID)

	_, err = l.Get("tx9")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestNew_Duplicates(t *testing.T) {
	_, err := New([]*Transaction{testTx(1, "a"), testTx(1, "b")})
	assert.ErrorIs(t, err, ErrDuplicateTransaction)
	_, err = New([]*Transaction{nil})
	assert.ErrorIs(t, err, ErrNilTransaction)
}

// ---------------------------------------------------------------------------
// Digest chain
// ---------------------------------------------------------------------------

func TestAppend_LinksDigests(t *testing.T) {
	l := filled(t)
	txs := l.Transactions()
	assert.Empty(t, txs[0].PrevDigest)
	assert.Len(t, txs[0].Digest, 64)
	assert.Equal(t, txs[0].Digest, txs[1].PrevDigest)
	assert.Equal(t, txs[1].Digest, txs[2].PrevDigest)
	require.NoError(t, l.Verify())
}

func TestVerify_DetectsTampering(t *testing.T) {
	tests := []struct {
		name   string
		tamper func(txs []*Transaction) []*Transaction
	}{
		{"amount edited", func(txs []*Transaction) []*Transaction {
			txs[0].Amount = money.Whole(1)
			return txs
		}},
		{"commission edited", func(txs []*Transaction) []*Transaction {
			txs[1].Commissions[0].Amount = money.Whole(999)
			return txs
		}},
		{"record dropped", func(txs []*Transaction) []*Transaction {
			return append(txs[:1], txs[2:]...)
		}},
		{"records reordered", func(txs []*Transaction) []*Transaction {
			txs[0], txs[1] = txs[1], txs[0]
			return txs
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var copies []*Transaction
			for _, tx := range filled(t).Transactions() {
				copies = append(copies, tx.Clone())
			}
			l, err := New(tt.tamper(copies))
			require.NoError(t, err)
			assert.ErrorIs(t, l.Verify(), ErrDigestMismatch)
		})
	}
}

func TestComputeDigest_Deterministic(t *testing.T) {
	a, err := ComputeDigest(testTx(1, "a", "root"), "")
	require.NoError(t, err)
	b, err := ComputeDigest(testTx(1, "a", "root"), "")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := ComputeDigest(testTx(1, "a", "root"), a)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "predecessor changes the digest")

	_, err = ComputeDigest(testTx(1, "a"), "not-hex")
	assert.ErrorIs(t, err, ErrDigestMismatch)
}

func TestTransaction_CommissionTotal(t *testing.T) {
	tx := testTx(1, "e", "d", "c", "b")
	assert.Equal(t, money.Whole(30), tx.CommissionTotal())
	assert.Equal(t, money.Amount(0), testTx(2, "root").CommissionTotal())
}

func TestTransaction_CloneIsDeep(t *testing.T) {
	tx := testTx(1, "a", "root")
	c := tx.Clone()
	c.Commissions[0].Amount = 0
	assert.Equal(t, money.Whole(10), tx.Commissions[0].Amount)
}
