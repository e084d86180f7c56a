package main

import (
	"bodhini/cmd"
	_ "bodhini/docs"
)

// @title BODHINI API
// @version 1.0
// @description Events, accounts, media catalog and contact form for the BODHINI community site.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT from /api/auth/token.
func main() {
	cmd.Execute()
}
