package domain

// TwoFactorSetup is what a user needs to register an authenticator app.
type TwoFactorSetup struct {
	Secret          string
	ProvisioningURI string
	QRCodePNG       []byte
}
