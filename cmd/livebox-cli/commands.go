package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Turgon37/LiveboxTools/livebox"
	"github.com/Turgon37/LiveboxTools/tui"
)

func init() {
	rootCmd.AddCommand(
		opCommand("status", "Show the WAN connection status", livebox.OpWANStatus),
		opCommand("info", "Show information about the router", livebox.OpDeviceInfo),
		opCommand("reboot", "Reboot the router", livebox.OpReboot),
		opCommand("users", "List the system users", livebox.OpUsers),
		opCommand("led", "Show the status of the physical LEDs", livebox.OpLED),
		opCommand("usb", "List the connected USB devices", livebox.OpUSBDevices),
		newWifiCommand(),
		newDevicesCommand(),
		newLANCommand(),
		newFirewallCommand(),
		newVoIPCommand(),
		newDECTCommand(),
		newTVCommand(),
		newCallCommand(),
		newDemoCommand(),
	)
}

func newWifiCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wifi",
		Short: "Query or toggle the WiFi radio",
	}
	cmd.AddCommand(
		opCommand("get", "Show the WiFi status", livebox.OpWifiStatus),
		&cobra.Command{
			Use:   "on",
			Short: "Enable the WiFi radio",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runWifiSet(cmd, true)
			},
		},
		&cobra.Command{
			Use:   "off",
			Short: "Disable the WiFi radio",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runWifiSet(cmd, false)
			},
		},
	)
	return cmd
}

func runWifiSet(cmd *cobra.Command, enable bool) error {
	params := fmt.Sprintf(`{"parameters":{"Enable":%t,"Status":%t}}`, enable, enable)
	return runOperation(cmd, livebox.OpWifiSet, params)
}

func newDevicesCommand() *cobra.Command {
	var connected, disconnected, dect bool
	var expression string
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List the devices known to the router",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := ""
			switch {
			case expression != "":
				params = expression
			case connected:
				params = livebox.DevicesConnectedFilter
			case disconnected:
				params = livebox.DevicesNotConnectedFilter
			case dect:
				params = livebox.DevicesDECTFilter
			}
			return runOperation(cmd, livebox.OpDevices, params)
		},
	}
	cmd.Flags().BoolVar(&connected, "connected", false, "only currently active devices")
	cmd.Flags().BoolVar(&disconnected, "disconnected", false, "only inactive devices")
	cmd.Flags().BoolVar(&dect, "dect", false, "only paired DECT handsets")
	cmd.Flags().StringVar(&expression, "expression", "", "raw filter expression body")
	cmd.MarkFlagsMutuallyExclusive("connected", "disconnected", "dect", "expression")
	return cmd
}

func newLANCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lan",
		Short: "Query the internal LAN",
	}
	cmd.AddCommand(
		opCommand("ip", "Show the LAN IP configuration", livebox.OpLANIP),
		opCommand("leases", "List the IPv4 DHCP static leases", livebox.OpStaticLeases),
		opCommand("mibs", "Extract LAN information from the MIB database", livebox.OpLANMIBs),
		opCommand("data-mibs", "Extract general information from the MIB database", livebox.OpDataMIBs),
	)
	return cmd
}

func newFirewallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "firewall",
		Short: "Query the firewall configuration",
	}
	cmd.AddCommand(
		opCommand("forwarding", "List the forwarded ports", livebox.OpPortForwarding),
		opCommand("pinhole", "List the IPv6 pinholes", livebox.OpPinhole),
	)
	return cmd
}

func newVoIPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voip",
		Short: "Query the IP phone system",
	}
	cmd.AddCommand(
		opCommand("config", "Show the VoIP configuration", livebox.OpVoIPConfig),
		opCommand("trunks", "Show the phone trunks", livebox.OpListTrunks),
		opCommand("handsets", "Show the phone handsets", livebox.OpListHandsets),
		opCommand("ring", "Make a ring test on the phone line", livebox.OpRing),
	)
	return cmd
}

func newDECTCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dect",
		Short: "Query the DECT base station",
	}
	cmd.AddCommand(
		opCommand("pin", "Show the DECT pairing pin code", livebox.OpDECTPIN),
		opCommand("version", "Show the DECT base station version", livebox.OpDECTVersion),
		opCommand("standard-version", "Show the DECT cat-iq version", livebox.OpDECTStandardVersion),
		opCommand("rfpi", "Show the DECT base station RFPI", livebox.OpDECTRFPI),
	)
	return cmd
}

func newTVCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tv",
		Short: "Query IP television",
	}
	cmd.AddCommand(
		opCommand("status", "Show the IPTV status", livebox.OpIPTVStatus),
		opCommand("config", "Show the IPTV configuration", livebox.OpIPTVConfig),
	)
	return cmd
}

// newCallCommand exposes the raw sysbus entry point for endpoints the
// catalog does not know about.
func newCallCommand() *cobra.Command {
	var auth bool
	var method string
	cmd := &cobra.Command{
		Use:   "call <endpoint> [params]",
		Short: "Call an arbitrary sysbus endpoint, e.g. NMC:getWANStatus",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := ""
			if len(args) > 1 {
				params = args[1]
			}
			op := livebox.Operation{
				Name:          args[0],
				Endpoint:      args[0],
				Method:        method,
				DefaultParams: livebox.DefaultParams,
				Auth:          auth,
			}
			return runOperation(cmd, op, params)
		},
	}
	cmd.Flags().BoolVar(&auth, "auth", false, "perform the call on an authenticated session")
	cmd.Flags().StringVar(&method, "method", "POST", "HTTP method to use")
	return cmd
}

// newDemoCommand reproduces the historical demonstration entry point: a
// login immediately followed by a logout.
func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Log in to the router then immediately log out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings()
			if err != nil {
				return err
			}
			client, err := s.newClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			password := s.password()
			var loginErr error
			tui.ShowSpinner("Authenticating...", func() {
				loginErr = client.Login(ctx, password)
			})
			if loginErr != nil {
				return loginErr
			}
			tui.ShowSuccess("authenticated on %s", client.BaseURL())
			if err := client.Logout(ctx); err != nil {
				return err
			}
			tui.ShowSuccess("logged out")
			return nil
		},
	}
}
