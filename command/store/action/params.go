package action

const (
	nonceFlag = "nonce"
)

var (
	params = &actionParams{}
)

type actionParams struct {
	nonce uint64
}
