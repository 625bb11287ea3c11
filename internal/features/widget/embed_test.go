package widget

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_RenderEmbedScript_InjectsBaseURLAndToken(t *testing.T) {
	script := renderEmbedScript("https://bugs.example.com", "bt_abc123")

	assert.Contains(t, script, "var BASE_URL = 'https://bugs.example.com';")
	assert.Contains(t, script, "var TOKEN = 'bt_abc123';")
	assert.False(t, strings.Contains(script, "__BASE_URL__"))
	assert.False(t, strings.Contains(script, "__TOKEN__"))
}

func Test_TokenPattern_RejectsScriptBreakingTokens(t *testing.T) {
	assert.True(t, tokenPattern.MatchString("bt_F3k9-xQ"))
	assert.False(t, tokenPattern.MatchString("bt_abc'able"))
	assert.False(t, tokenPattern.MatchString("bt_abc</script>"))
	assert.False(t, tokenPattern.MatchString(""))
	assert.False(t, tokenPattern.MatchString("bt abc"))
}
