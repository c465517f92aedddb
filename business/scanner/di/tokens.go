// Package di contains dependency injection tokens for the scanner context.
package di

import (
	"github.com/0xmachado/dexscan/business/scanner/app"
	"github.com/0xmachado/dexscan/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Scanner = di.NewToken[*app.Scanner]("scanner.Scanner")
)

// Private dependency tokens - internal to scanner module
var (
	PaperSession   = di.NewToken[*app.PaperSession]("scanner:paperSession")
	ArtifactWriter = di.NewToken[app.ArtifactWriter]("scanner:artifactWriter")
	Reporter       = di.NewToken[app.Reporter]("scanner:reporter")
)

// Helper functions for type-safe access
func GetScanner(c di.ServiceRegistry) *app.Scanner {
	return di.GetToken(c, Scanner)
}

func GetPaperSession(c di.ServiceRegistry) *app.PaperSession {
	return di.GetToken(c, PaperSession)
}

func GetArtifactWriter(c di.ServiceRegistry) app.ArtifactWriter {
	return di.GetToken(c, ArtifactWriter)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
