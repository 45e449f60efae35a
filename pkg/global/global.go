package global

var (
	Version          = "0.0.1"
	BuildTime        = "none"
	Verbose          = false
	ConfigFilename   = "dockerapp.yaml"
	DockerfileName   = "Dockerfile"
	TmpDirName       = ".dockerapp/tmp"
	InsideAppPath    = "/app/"
	ScriptsDirInside = "/dockerapp/scripts/"
	DefaultTool      = "docker"
	DefaultProgress  = "plain"
)
