package wallet

func init() {
	// Keep age's scrypt cheap so key file round trips stay fast.
	SetScryptWorkFactor(10)
}
