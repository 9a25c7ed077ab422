package ban

import (
	"testing"
	"time"

	"github.com/banwardhq/banward-server/internal/model"
	"github.com/stretchr/testify/require"
)

func TestUserTypePrepareForStorage(t *testing.T) {
	resolver := fakeResolver{"alice": 7}
	userType := NewUserType(resolver)

	items, err := userType.PrepareForStorage([]string{"42", " Alice ", "nobody", ""})
	require.NoError(t, err)
	require.Equal(t, []string{"42", "7"}, items)
}

func TestUserTypeMemoizesUntilTidy(t *testing.T) {
	resolver := fakeResolver{"alice": 7}
	userType := NewUserType(resolver)

	items, err := userType.PrepareForStorage([]string{"alice"})
	require.NoError(t, err)
	require.Equal(t, []string{"7"}, items)

	// Renames are not visible until the memo is dropped
	resolver["alice"] = 9

	items, err = userType.PrepareForStorage([]string{"ALICE"})
	require.NoError(t, err)
	require.Equal(t, []string{"7"}, items)

	userType.Tidy()

	items, err = userType.PrepareForStorage([]string{"alice"})
	require.NoError(t, err)
	require.Equal(t, []string{"9"}, items)
}

func TestIPTypePrepareForStorage(t *testing.T) {
	ipType := NewIPType()

	items, err := ipType.PrepareForStorage([]string{
		"10.0.0.1",
		" 192.168.*.1 ",
		"2001:DB8::1",
		"10.0.*",
		"not-an-ip",
		"999.999.999.999.999",
		"",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.1", "192.168.*.1", "2001:db8::1", "10.0.*"}, items)
}

func TestIPTypeCheck(t *testing.T) {
	ipType := NewIPType()
	ipType.now = func() time.Time { return time.Unix(5000, 0) }

	rows := []Row{
		{Item: "10.0.0.9", End: 4000, Reason: "expired"},
		{Item: "192.168.*.1", End: 0, Reason: "wildcard"},
		{Item: "10.0.0.9", End: 6000, Reason: "bounded"},
	}

	match := ipType.Check(rows, Actor{IP: "192.168.77.1"})
	require.NotNil(t, match)
	require.Equal(t, "wildcard", match.Reason)

	// The expired row must not shadow the live one for the same address
	match = ipType.Check(rows, Actor{IP: "10.0.0.9"})
	require.NotNil(t, match)
	require.Equal(t, "bounded", match.Reason)

	require.Nil(t, ipType.Check(rows, Actor{IP: "172.16.0.1"}))
	require.Nil(t, ipType.Check(rows, Actor{}))
}

func TestEmailTypePrepareForStorage(t *testing.T) {
	emailType := NewEmailType()

	items, err := emailType.PrepareForStorage([]string{
		" Alice@Spam.Example ",
		"*@flood.example",
		"no-at-sign",
		"",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"alice@spam.example", "*@flood.example"}, items)
}

func TestColumnTypesDeclareTheirColumns(t *testing.T) {
	require.Equal(t, ColumnUserID, NewUserType(fakeResolver{}).UserColumn())
	require.Equal(t, ColumnUserEmail, NewEmailType().UserColumn())
	require.Empty(t, NewIPType().UserColumn())
}

func TestActorField(t *testing.T) {
	actor := Actor{UserID: 7, IP: "10.0.0.1", Email: "a@b.example"}

	value, ok := actor.Field(ColumnUserID)
	require.True(t, ok)
	require.Equal(t, "7", value)

	value, ok = actor.Field(ColumnUserIP)
	require.True(t, ok)
	require.Equal(t, "10.0.0.1", value)

	value, ok = actor.Field(ColumnUserEmail)
	require.True(t, ok)
	require.Equal(t, "a@b.example", value)

	_, ok = actor.Field("no_such_column")
	require.False(t, ok)

	// Absent fields report not-ok so checks skip the mode
	_, ok = Actor{}.Field(ColumnUserEmail)
	require.False(t, ok)
}

func TestSnapshotGroupsByModeInOrder(t *testing.T) {
	snapshot := NewSnapshot([]model.Ban{
		{ID: 1, Mode: "ip", Item: "10.0.0.1", ExpiresAt: 100, DisplayReason: "a"},
		{ID: 2, Mode: "email", Item: "x@y.example"},
		{ID: 3, Mode: "ip", Item: "10.0.0.2"},
	})

	require.Equal(t, []string{"ip", "email"}, snapshot.Modes())
	require.Equal(t, 3, snapshot.Len())

	rows := snapshot.Rows("ip")
	require.Len(t, rows, 2)
	require.Equal(t, Row{Item: "10.0.0.1", End: 100, Reason: "a"}, rows[0])
	require.Equal(t, "10.0.0.2", rows[1].Item)

	require.Empty(t, snapshot.Rows("user"))
}
