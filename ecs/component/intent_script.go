package component

// IntentScript points a character at a tengo driver. Script is a path
// accepted by prefabs.LoadScript.
type IntentScript struct {
	Script string
	// Disabled scripts leave Intent untouched so another driver can own it.
	Disabled bool
}

var IntentScriptComponent = NewComponent[IntentScript]()
