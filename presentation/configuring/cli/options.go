package cli

// Options mirrors the command line. Empty strings and false mean "not given";
// numeric flags are checked with IsSet so an explicit 0 is still seen.
type Options struct {
	Interface          string `short:"i" long:"interface" value-name:"name" description:"Requested TUN/TAP interface name"`
	Client             string `short:"c" long:"client" value-name:"ip" description:"Run as client and connect to the peer at ip"`
	Server             bool   `short:"s" long:"server" description:"Run as server (default)"`
	Port               int    `short:"p" long:"port" value-name:"n" description:"TCP/UDP port (default 6666)"`
	TCP                bool   `long:"tcp" description:"Use a TCP stream transport (default)"`
	UDP                bool   `long:"udp" description:"Use a UDP datagram transport"`
	TUN                bool   `long:"tun" description:"Create a TUN (IP) device (default)"`
	TAP                bool   `long:"tap" description:"Create a TAP (Ethernet) device"`
	Verbose            bool   `short:"v" long:"verbose" description:"Debug logging, per-frame summaries and traffic stats"`
	Listen             string `long:"listen" value-name:"ip" description:"Server bind address (default all interfaces)"`
	DialTimeoutMs      int    `long:"dial-timeout-ms" value-name:"n" description:"TCP client connect timeout in milliseconds"`
	DeviceBackend      string `long:"device-backend" value-name:"kernel|water" description:"Device allocation backend"`
	DeviceOpenAttempts int    `long:"device-open-attempts" value-name:"n" description:"Attempts to open the TUN control device"`
	ConfigFile         string `long:"config" value-name:"file" description:"JSON configuration file; flags override it"`
	LogFile            string `long:"log-file" value-name:"path" description:"Also write logs to a rotating file"`
	Interactive        bool   `long:"interactive" description:"Build the configuration in a terminal UI"`
	Version            bool   `long:"version" description:"Print version and exit"`
}
