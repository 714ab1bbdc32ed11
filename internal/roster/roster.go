package roster

import (
	"strings"

	"github.com/collectops/agentboard/backend/internal/types"
)

// Agent is one entry of the known-agent registry
type Agent struct {
	UserCode    string       `json:"userCode"`
	DisplayName string       `json:"displayName"`
	Client      types.Client `json:"client"`
}

// registry maps normalized remark-by login codes to display names. Rows
// carrying a code outside this table are dropped from every aggregation.
var registry = []Agent{
	{UserCode: "NCESCOPALAO", DisplayName: "Niecel Escopalao", Client: types.ClientENBD},
	{UserCode: "HPBONABON", DisplayName: "Henry Paolo P. Bonabon", Client: types.ClientENBD},
	{UserCode: "JTORTEGA", DisplayName: "John Vincent Ortega", Client: types.ClientENBD},
	{UserCode: "CGMEDALLA", DisplayName: "Cheska Mare Medalla", Client: types.ClientENBD},
	{UserCode: "CLCAMADO", DisplayName: "Christian Jeric Lajera Camado", Client: types.ClientENBD},
	{UserCode: "JCAYNO", DisplayName: "James Eduard Q. Cayno", Client: types.ClientENBD},
	{UserCode: "GCUENCA", DisplayName: "Gearbey M. Cuenca", Client: types.ClientENBD},
	{UserCode: "JPACULABA", DisplayName: "John Mark D. Paculaba", Client: types.ClientENBD},
	{UserCode: "DECAJES", DisplayName: "Dorithy Gail Cajes", Client: types.ClientEIB},
	{UserCode: "SBCANALES", DisplayName: "Samantha Nicole B. Canales", Client: types.ClientEIB},
}

var byCode = func() map[string]Agent {
	m := make(map[string]Agent, len(registry))
	for _, a := range registry {
		m[a.UserCode] = a
	}
	return m
}()

// Normalize uppercases and trims a raw remark-by value
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Lookup resolves a raw agent code against the registry. The second return
// is false for unknown codes; callers drop those rows rather than erroring.
func Lookup(raw string) (Agent, bool) {
	a, ok := byCode[Normalize(raw)]
	return a, ok
}

// Known reports whether the raw code maps to a registered agent
func Known(raw string) bool {
	_, ok := Lookup(raw)
	return ok
}

// ForClient returns the registry entries for one client, in registry order
func ForClient(client types.Client) []Agent {
	agents := make([]Agent, 0, len(registry))
	for _, a := range registry {
		if a.Client == client {
			agents = append(agents, a)
		}
	}
	return agents
}

// All returns the full registry
func All() []Agent {
	out := make([]Agent, len(registry))
	copy(out, registry)
	return out
}
