package command

const (
	DataDirFlag = "data-dir"
)
