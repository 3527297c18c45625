// Package assertplugin provides testing functions to validate a plugin's overall functionality.
// This package is designed to play well but not require the assertanswer package for validation
// of answers
//
// The asserter registers the plugin alone in a new hob.Registry, injects test doubles for
// the services hob provides and runs the plugin's Init before every drive. Emoji reactions,
// file uploads and posted messages are captured fresh for every drive while the plugin's own
// state carries over.
//
// Example:
//
//	func TestPlugin(t *testing.T) {
//	    assertplugin := assertplugin.New()
//	    yourPlugin := newPlugin()
//
//	    assertplugin.AnswersAndReacts(t, yourPlugin, &hob.Message{Text: "!roll 2d6"}, func(t *testing.T, answers []*hob.Answer, emojis []string) bool {
//	        return assert.Len(t, answers, 1) && assertanswer.HasTextContaining(t, answers[0], "rolled")
//	    })
//	}
package assertplugin
