package pages

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"

	mdb "github.com/liondandelion/magma/internal/db"
	"github.com/liondandelion/magma/internal/gost89"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, n.Render(&sb))
	return sb.String()
}

func TestIndex(t *testing.T) {
	html := render(t, Index(mdb.UserSessionData{}, []string{"cryptopro-a"}))
	assert.Contains(t, html, `<title>Magma</title>`)
	assert.Contains(t, html, `hx-post="/cipher"`)
	assert.Contains(t, html, `<option value="cryptopro-a">cryptopro-a</option>`)
	assert.Contains(t, html, `href="/login"`)
	assert.NotContains(t, html, `href="/logout"`)
}

func TestNavbarAuthenticated(t *testing.T) {
	html := render(t, User(mdb.UserSessionData{Username: "alice", IsAuthenticated: true, IsAdmin: true}))
	assert.Contains(t, html, `href="/logout"`)
	assert.Contains(t, html, `href="/userstable"`)
	assert.Contains(t, html, `href="/user/otp/enable"`)
}

func TestSBoxes(t *testing.T) {
	html := render(t, SBoxes(mdb.UserSessionData{}, nil))
	assert.Contains(t, html, "No tables stored yet")

	records := []mdb.SBoxRecord{{Name: "test", Author: "alice", SBox: gost89.DefaultSBox, CreatedAt: time.Unix(0, 0)}}
	html = render(t, SBoxes(mdb.UserSessionData{}, records))
	assert.NotContains(t, html, "No tables stored yet")
	assert.Contains(t, html, "by alice, 1970-01-01 00:00")
	// first row of the default table
	assert.Contains(t, html, "<tr><td>4</td><td>a</td><td>9</td><td>2</td>")
}
