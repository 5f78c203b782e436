package config

// EnvPrefix is empty because each field declares its fully-qualified
// RENTABLE_* variable name in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "RENTABLE_DB_DSN"
	EnvDBHost = "RENTABLE_DB_HOST"
	EnvDBUser = "RENTABLE_DB_USER"
	EnvDBName = "RENTABLE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
