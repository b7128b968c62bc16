package command

const (
	JSONOutputFlag = "json"
)

const (
	DefaultDataDir = "./router-data"
)
