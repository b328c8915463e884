package auth

import (
	"os"
	"strings"
	"sync"
)

var (
	curatorsOnce sync.Once
	curators     map[string]bool
)

// IsCurator reports whether the email is on the static allow-list that
// may create and delete recipes and boards. It is a pure UI-gating
// predicate; enforcement belongs to the store's access rules.
func IsCurator(email string) bool {
	curatorsOnce.Do(loadCurators)
	return curators[strings.ToLower(strings.TrimSpace(email))]
}

func loadCurators() {
	curators = make(map[string]bool)
	for _, e := range strings.Split(os.Getenv("CURATOR_EMAILS"), ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			curators[e] = true
		}
	}
}
