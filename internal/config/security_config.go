package config

type SecurityConfig interface {
	GetBootstrapAdminEmail() string
	GetBootstrapAdminPassword() string
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetBootstrapAdminEmail seeds the fake auth service with an administrator
func (Security) GetBootstrapAdminEmail() string {
	return GetEnv("ADMIN_EMAIL", "admin@example.com")
}

func (Security) GetBootstrapAdminPassword() string {
	return GetEnv("ADMIN_PASSWORD", "")
}
