package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_RecordDelivery_Increments_By_One(t *testing.T) {
	req := require.New(t)
	u := NewUnreadService()

	u.RecordDelivery("bob", "alice")
	req.Equal(1, u.Snapshot("bob")["alice"])
	u.RecordDelivery("bob", "alice")
	req.Equal(2, u.Snapshot("bob")["alice"])
}

func Test_Reset_Zeroes_One_Sender_Only(t *testing.T) {
	req := require.New(t)
	u := NewUnreadService()

	u.RecordDelivery("bob", "alice")
	u.RecordDelivery("bob", "carol")
	u.Reset("bob", "alice")

	counts := u.Snapshot("bob")
	req.Equal(0, counts["alice"])
	req.Equal(1, counts["carol"])
}

func Test_Reset_Unknown_Recipient_Is_Noop(t *testing.T) {
	req := require.New(t)
	u := NewUnreadService()
	u.Reset("ghost", "alice")
	req.Empty(u.Snapshot("ghost"))
}

func Test_Snapshot_Is_A_Copy(t *testing.T) {
	req := require.New(t)
	u := NewUnreadService()
	u.RecordDelivery("bob", "alice")

	snap := u.Snapshot("bob")
	snap["alice"] = 42
	req.Equal(1, u.Snapshot("bob")["alice"])
}

func Test_Discard_Drops_The_Whole_Bucket(t *testing.T) {
	req := require.New(t)
	u := NewUnreadService()
	u.RecordDelivery("bob", "alice")
	u.RecordDelivery("bob", "carol")

	u.Discard("bob")
	req.Empty(u.Snapshot("bob"))
}
