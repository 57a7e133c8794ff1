package console

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	keyServing     = "Serving %s"
	keyRunning     = "Server running at %s"
	keyStopHint    = "Press Ctrl+C to stop"
	keyShutdown    = "Shutting down..."
	keyPortInUse   = "Error: port %s is already in use."
	keyPortHint    = "Try stopping other applications using this port."
	keyStartFailed = "Error starting server: %s"
)

// Supported lists the languages with translations, English first as fallback.
var Supported = []language.Tag{language.English, language.Czech}

var translations = map[language.Tag]map[string]string{
	language.English: {
		keyServing:     "Serving %s",
		keyRunning:     "Server running at %s",
		keyStopHint:    "Press Ctrl+C to stop",
		keyShutdown:    "Shutting down...",
		keyPortInUse:   "Error: port %s is already in use.",
		keyPortHint:    "Try stopping other applications using this port.",
		keyStartFailed: "Error starting server: %s",
	},
	language.Czech: {
		keyServing:     "Servíruji %s",
		keyRunning:     "Server běží na %s",
		keyStopHint:    "Pro ukončení stiskněte Ctrl+C",
		keyShutdown:    "Končím, vypínám server...",
		keyPortInUse:   "Chyba: Port %s je obsazený.",
		keyPortHint:    "Zkuste vypnout jiné aplikace běžící na tomto portu.",
		keyStartFailed: "Chyba při spouštění serveru: %s",
	},
}

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			// Keys and messages are literals; SetString only fails on bad input.
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}
