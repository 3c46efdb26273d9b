// Package dispatch answers menu postbacks with fixed notices. No backend
// call is involved; decomposition is only for free-form text.
package dispatch

const (
	ActionHelp  = "help"
	ActionAbout = "about"

	unknownActionNotice = "That menu action isn't available right now."
)

var actionReplies = map[string]string{
	ActionHelp:  "Send me any request in plain text. If it bundles several asks, I split the work between specialists and merge their answers into one reply.",
	ActionAbout: "I'm an assistant that breaks complex requests into specialist sub-tasks and answers them in one go.",
}

// Postback maps a menu action to its fixed reply. Unknown actions get a
// fixed notice, never an error.
func Postback(action string) string {
	if reply, ok := actionReplies[action]; ok {
		return reply
	}
	return unknownActionNotice
}
