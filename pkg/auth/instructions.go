package auth

import (
	"fmt"
	"strings"
)

// ShowCredentialGuide displays step-by-step instructions for obtaining
// RingCentral JWT credentials
func ShowCredentialGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("RINGCENTRAL CREDENTIAL GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("This tool authenticates with a JWT belonging to a RingCentral app.")
	fmt.Println("You need four values: client ID, client secret, JWT token, server URL.")
	fmt.Println()

	fmt.Println("STEP 1: Create (or open) an app in the developer console")
	fmt.Println("   - Go to https://developers.ringcentral.com and sign in")
	fmt.Println("   - Console -> Apps -> Create App -> REST API App")
	fmt.Println("   - Auth type: JWT auth flow")
	fmt.Println("   - Required scopes: ReadCallLog, EditCallLog")
	fmt.Println()

	fmt.Println("STEP 2: Copy the app credentials")
	fmt.Println("   - The app's Credentials page shows Client ID and Client Secret")
	fmt.Println()

	fmt.Println("STEP 3: Create a JWT for your user")
	fmt.Println("   - Developer console -> your avatar -> Credentials -> Create JWT")
	fmt.Println("   - Pick the environment (Production or Sandbox)")
	fmt.Println("   - Authorize it for your app's Client ID (or all apps)")
	fmt.Println("   - Copy the generated token (a long three-part string)")
	fmt.Println()

	fmt.Println("STEP 4: Pick the server URL")
	fmt.Println("   - Production: https://platform.ringcentral.com")
	fmt.Println("   - Sandbox:    https://platform.devtest.ringcentral.com")
	fmt.Println()

	fmt.Println("SECURITY NOTES:")
	fmt.Println("   - The JWT grants API access as your user; never share it")
	fmt.Println("   - This tool stores credentials in the system keyring when")
	fmt.Println("     available, otherwise in an encrypted file")
	fmt.Println("   - JWTs expire; recreate the token when authentication starts")
	fmt.Println("     failing with a credential error")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// ShowQuickGuide shows a condensed version for experienced users
func ShowQuickGuide() {
	fmt.Println("\nQuick guide: developers.ringcentral.com -> Apps -> your JWT app -> Credentials")
	fmt.Println("   Need: client ID, client secret, a JWT authorized for the app, server URL")
	fmt.Println("   Run 'rclogs auth login --help-credentials' for detailed instructions")
}
