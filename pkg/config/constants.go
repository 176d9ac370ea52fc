package config

// EnvPrefix is the envconfig prefix for all ShopLoop variables.
const EnvPrefix = "shoploop"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SHOPLOOP_DB_DSN"
	EnvDBHost = "SHOPLOOP_DB_HOST"
	EnvDBUser = "SHOPLOOP_DB_USER"
	EnvDBName = "SHOPLOOP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
