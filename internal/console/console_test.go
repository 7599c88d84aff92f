package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/moraine/internal/dashboard"
)

func TestConsoleQuiet(t *testing.T) {
	var buf strings.Builder
	c := New(&buf)
	c.SetQuiet(true)

	c.Header("Title", "sub")
	c.Infof("hidden")
	c.Successf("hidden")
	assert.Empty(t, buf.String())

	c.Warnf("still shown")
	c.Errorf("also shown")
	out := buf.String()
	assert.Contains(t, out, "still shown")
	assert.Contains(t, out, "also shown")
}

func TestSummaryAlignment(t *testing.T) {
	var buf strings.Builder
	c := New(&buf)
	c.Summary("Run", [][2]string{
		{"Organization", "123456"},
		{"Networks", "3"},
	})
	out := buf.String()
	assert.Contains(t, out, "Organization")
	assert.Contains(t, out, "123456")
	assert.Contains(t, out, "Networks")
}

func TestRuleDiff(t *testing.T) {
	current := []dashboard.L3Rule{
		{Policy: "allow", Protocol: "udp", SrcCidr: "any", SrcPort: "any", DestCidr: "OBJ(101)", DestPort: "53", Comment: "Allow DNS"},
	}
	proposed := []dashboard.L3Rule{
		{Policy: "allow", Protocol: "udp", SrcCidr: "any", SrcPort: "any", DestCidr: "OBJ(101)", DestPort: "53", Comment: "Allow DNS"},
		{Policy: "deny", Protocol: "tcp", SrcCidr: "any", SrcPort: "any", DestCidr: "any", DestPort: "23", Comment: "Block telnet"},
	}

	text := RuleDiff(current, proposed)
	require.NotEmpty(t, text)
	assert.Contains(t, text, "+deny tcp any:any -> any:23 # Block telnet")
	assert.Contains(t, text, "--- current")
	assert.Contains(t, text, "+++ proposed")

	assert.Empty(t, RuleDiff(current, current), "identical lists produce no diff")
}

func TestRenderRuleSyslog(t *testing.T) {
	r := dashboard.L3Rule{
		Policy: "allow", Protocol: "tcp",
		SrcCidr: "any", SrcPort: "any",
		DestCidr: "any", DestPort: "443",
		SyslogEnabled: true,
	}
	assert.Equal(t, "allow tcp any:any -> any:443 syslog", renderRule(r))
}
