package plugins_test

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadling/hob"
	"github.com/gadling/hob/plugins"
	"github.com/gadling/hob/test/assertanswer"
	"github.com/gadling/hob/test/assertplugin"
)

func TestCalcRunsBinary(t *testing.T) {
	echo, err := exec.LookPath("echo")
	if err != nil {
		t.Skip("echo isn't available")
	}

	pc := newPluginConfig(plugins.CalcPluginName)
	pc.Set("binary", echo)

	calc, err := plugins.NewCalc(pc)
	require.NoError(t, err)

	assertplugin := assertplugin.New()
	assertplugin.AnswersAndReacts(t, calc.Plugin, msg("!calc 72 32 - 5 9 / *"), func(t *testing.T, answers []*hob.Answer, emojis []string) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "```72 32 - 5 9 / *\n```")
	})
}

func TestCalcWithBrokenBinary(t *testing.T) {
	pc := newPluginConfig(plugins.CalcPluginName)
	pc.Set("binary", "/nonexistent/hpnc")

	calc, err := plugins.NewCalc(pc)
	require.NoError(t, err)

	assertplugin := assertplugin.New()
	assertplugin.AnswersAndReacts(t, calc.Plugin, msg("!calc 1 2 +"), func(t *testing.T, answers []*hob.Answer, emojis []string) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "My calculator (`/nonexistent/hpnc`) is borken!")
	})
}

func TestCalcHelp(t *testing.T) {
	calc, err := plugins.NewCalc(newPluginConfig(plugins.CalcPluginName))
	require.NoError(t, err)

	assertplugin := assertplugin.New()
	assertplugin.AnswersAndReacts(t, calc.Plugin, msg("!calc"), func(t *testing.T, answers []*hob.Answer, emojis []string) bool {
		return assert.Len(t, answers, 1) &&
			assert.True(t, strings.HasPrefix(answers[0].Text, "`!calc EXPR`\n")) &&
			assertanswer.HasTextContaining(t, answers[0], "`$HOB_CALC`")
	})
}

func TestCalcInvalidTimeout(t *testing.T) {
	pc := newPluginConfig(plugins.CalcPluginName)
	pc.Set("timeout", "soon")

	_, err := plugins.NewCalc(pc)
	assert.Error(t, err)
}
