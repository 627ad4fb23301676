package sources

const (
	NameIPInfo      = "ipinfo"
	NameMaxmind     = "maxmind"
	NameIP2Location = "ip2location"
	NameIPStack     = "ipstack"
	NameDBIP        = "dbip"
)
