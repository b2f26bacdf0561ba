package livebox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Operation describes one sysbus endpoint: where it lives, how it is
// called, and its capability flags. The catalog below is the single source
// of truth consulted by Invoke, so "requires a session" and "touches the
// hardware" are data, not wrapping logic.
type Operation struct {
	Name          string
	Endpoint      string
	Method        string
	DefaultParams string // empty means the call carries no body
	Auth          bool   // requires an authenticated session
	Action        bool   // causes a physical side effect on the device
}

var (
	OpReboot              = Operation{Name: "reboot", Endpoint: "NMC:reboot", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true, Action: true}
	OpDeviceInfo          = Operation{Name: "deviceInfo", Endpoint: "DeviceInfo", Method: http.MethodGet, Auth: true}
	OpWANStatus           = Operation{Name: "wanStatus", Endpoint: "NMC:getWANStatus", Method: http.MethodPost, DefaultParams: DefaultParams}
	OpWifiStatus          = Operation{Name: "wifiStatus", Endpoint: "NMC/Wifi:get", Method: http.MethodPost, DefaultParams: DefaultParams}
	OpWifiSet             = Operation{Name: "wifiSet", Endpoint: "NMC/Wifi:set", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true, Action: true}
	OpLANIP               = Operation{Name: "lanIP", Endpoint: "NMC:getLANIP", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpStaticLeases        = Operation{Name: "staticLeases", Endpoint: "DHCPv4/Server/Pool/default:getStaticLeases", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpPortForwarding      = Operation{Name: "portForwarding", Endpoint: "Firewall:getPortForwarding", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpPinhole             = Operation{Name: "pinhole", Endpoint: "Firewall:getPinhole", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpListTrunks          = Operation{Name: "listTrunks", Endpoint: "VoiceService/VoiceApplication:listTrunks", Method: http.MethodPost, DefaultParams: DefaultParams}
	OpListHandsets        = Operation{Name: "listHandsets", Endpoint: "VoiceService/VoiceApplication:listHandsets", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpVoIPConfig          = Operation{Name: "voipConfig", Endpoint: "NMC:getVoIPConfig", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpRing                = Operation{Name: "ring", Endpoint: "VoiceService/VoiceApplication:ring", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true, Action: true}
	OpDECTPIN             = Operation{Name: "dectPIN", Endpoint: "DECT:getPIN", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpDECTVersion         = Operation{Name: "dectVersion", Endpoint: "DECT:getVersion", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpDECTStandardVersion = Operation{Name: "dectStandardVersion", Endpoint: "DECT:getStandardVersion", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpDECTRFPI            = Operation{Name: "dectRFPI", Endpoint: "DECT:getRFPI", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpIPTVStatus          = Operation{Name: "iptvStatus", Endpoint: "NMC/OrangeTV:getIPTVStatus", Method: http.MethodPost, DefaultParams: DefaultParams}
	OpIPTVConfig          = Operation{Name: "iptvConfig", Endpoint: "NMC/OrangeTV:getIPTVConfig", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpUsers               = Operation{Name: "users", Endpoint: "UserManagement:getUsers", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpLED                 = Operation{Name: "led", Endpoint: "LED", Method: http.MethodGet, Auth: true}
	OpDevices             = Operation{Name: "devices", Endpoint: "Devices:get", Method: http.MethodPost, DefaultParams: DefaultParams}
	OpLANMIBs             = Operation{Name: "lanMIBs", Endpoint: "NeMo/Intf/lan:getMIBs", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpDataMIBs            = Operation{Name: "dataMIBs", Endpoint: "NeMo/Intf/data:getMIBs", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
	OpUSBDevices          = Operation{Name: "usbDevices", Endpoint: "USBHosts:getDevices", Method: http.MethodPost, DefaultParams: DefaultParams, Auth: true}
)

// Catalog indexes every known operation by name.
var Catalog = func() map[string]Operation {
	ops := []Operation{
		OpReboot, OpDeviceInfo, OpWANStatus, OpWifiStatus, OpWifiSet,
		OpLANIP, OpStaticLeases, OpPortForwarding, OpPinhole,
		OpListTrunks, OpListHandsets, OpVoIPConfig, OpRing,
		OpDECTPIN, OpDECTVersion, OpDECTStandardVersion, OpDECTRFPI,
		OpIPTVStatus, OpIPTVConfig, OpUsers, OpLED, OpDevices,
		OpLANMIBs, OpDataMIBs, OpUSBDevices,
	}
	m := make(map[string]Operation, len(ops))
	for _, op := range ops {
		m[op.Name] = op
	}
	return m
}()

// Device listing filter expressions, verbatim from the router web UI.
const (
	DevicesConnectedFilter    = `{"parameters":{"expression":{"usbM2M":" usb && wmbus and .Active==true and .Master==\"\" ","usb":" printer && physical and .Active==true and .Master==\"\" ","usblogical":"volume && logical and .Active==true and .Master==\"\" ","wifi":"wifi && (edev || hnid) and !homeplug_av and !homeplug_devolo and .Active==true and .Master==\"\" ","eth":"eth && (edev || hnid) and !homeplug_av and !homeplug_devolo and .Active==true  and .Master==\"\" ","dect":"voice && dect && handset && physical and .Active==true  and .Master==\"\"  "}}}`
	DevicesNotConnectedFilter = `{"parameters":{"expression":".Active==false","traverse":"down","flags":""}}`
	DevicesDECTFilter         = `{"parameters":{"expression":{"dect":"voice && dect && handset && physical"}}}`
)

// invoke consults the descriptor flags before touching the network: an
// auth-flagged operation short-circuits with ErrAuthRequired when no
// session is established, and an action-flagged one is announced first.
func (c *Client) invoke(ctx context.Context, op Operation, params string) ([]byte, error) {
	if op.Auth && !c.connected {
		c.logger.Warn("%s requires an authenticated session, login first", op.Name)
		return nil, ErrAuthRequired
	}
	if op.Action {
		c.logger.Info("%s triggers a physical action on the device", op.Name)
	}
	if params == "" {
		params = op.DefaultParams
	}
	return c.sysbus(ctx, op.Endpoint, params, op.Auth, op.Method)
}

// Invoke dispatches an operation through the descriptor table, with params
// overriding the operation default body when non-empty.
func (c *Client) Invoke(ctx context.Context, op Operation, params string) (any, error) {
	return decodeAny(c.invoke(ctx, op, params))
}

// Call invokes an operation and deserializes the response into T.
func Call[T any](ctx context.Context, c *Client, op Operation) (T, error) {
	var result T
	raw, err := c.invoke(ctx, op, "")
	if err != nil {
		return result, err
	}
	if raw == nil {
		return result, nil
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, newError(CategoryDecode, op.Endpoint, op.Method, err)
	}
	return result, nil
}

// Reboot restarts the router.
func (c *Client) Reboot(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpReboot, "")
}

// DeviceInfo returns information about the router itself.
func (c *Client) DeviceInfo(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpDeviceInfo, "")
}

// WANStatus returns the state of the WAN connection.
func (c *Client) WANStatus(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpWANStatus, "")
}

// WifiStatus returns the WiFi radio status.
func (c *Client) WifiStatus(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpWifiStatus, "")
}

// SetWifi enables or disables the WiFi radio.
func (c *Client) SetWifi(ctx context.Context, enable bool) (any, error) {
	params := struct {
		Parameters struct {
			Enable bool `json:"Enable"`
			Status bool `json:"Status"`
		} `json:"parameters"`
	}{}
	params.Parameters.Enable = enable
	params.Parameters.Status = enable
	buf, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("livebox: cannot build wifi parameters: %w", err)
	}
	return c.Invoke(ctx, OpWifiSet, string(buf))
}

// LANIP returns the IP configuration of the internal LAN.
func (c *Client) LANIP(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpLANIP, "")
}

// StaticLeases lists the IPv4 DHCP static leases.
func (c *Client) StaticLeases(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpStaticLeases, "")
}

// PortForwarding lists the forwarded ports.
func (c *Client) PortForwarding(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpPortForwarding, "")
}

// Pinhole lists the IPv6 firewall pinholes.
func (c *Client) Pinhole(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpPinhole, "")
}

// ListTrunks returns information about the IP phone system.
func (c *Client) ListTrunks(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpListTrunks, "")
}

// ListHandsets returns information about the IP phone devices.
func (c *Client) ListHandsets(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpListHandsets, "")
}

// VoIPConfig returns the current VoIP configuration.
func (c *Client) VoIPConfig(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpVoIPConfig, "")
}

// Ring makes a ring test on the phone line device.
func (c *Client) Ring(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpRing, "")
}

// DECTPIN returns the DECT pairing pin code.
func (c *Client) DECTPIN(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpDECTPIN, "")
}

// DECTVersion returns the DECT base station version.
func (c *Client) DECTVersion(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpDECTVersion, "")
}

// DECTStandardVersion returns the DECT cat-iq version.
func (c *Client) DECTStandardVersion(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpDECTStandardVersion, "")
}

// DECTRFPI returns the DECT base station RFPI.
func (c *Client) DECTRFPI(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpDECTRFPI, "")
}

// IPTVStatus returns the status of IP television.
func (c *Client) IPTVStatus(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpIPTVStatus, "")
}

// IPTVConfig returns the configuration of IP television.
func (c *Client) IPTVConfig(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpIPTVConfig, "")
}

// Users lists the system users.
func (c *Client) Users(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpUsers, "")
}

// LED returns the status of the physical LEDs.
func (c *Client) LED(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpLED, "")
}

// Devices lists every device known to the router. A non-empty expr is sent
// as the filter expression body.
func (c *Client) Devices(ctx context.Context, expr string) (any, error) {
	return c.Invoke(ctx, OpDevices, expr)
}

// ConnectedDevices lists only currently active devices.
func (c *Client) ConnectedDevices(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpDevices, DevicesConnectedFilter)
}

// DisconnectedDevices lists only inactive devices.
func (c *Client) DisconnectedDevices(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpDevices, DevicesNotConnectedFilter)
}

// DECTDevices lists the paired DECT handsets.
func (c *Client) DECTDevices(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpDevices, DevicesDECTFilter)
}

// LANMIBs extracts LAN information from the MIB database.
func (c *Client) LANMIBs(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpLANMIBs, "")
}

// DataMIBs extracts general information from the MIB database.
func (c *Client) DataMIBs(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpDataMIBs, "")
}

// USBDevices lists the connected USB devices.
func (c *Client) USBDevices(ctx context.Context) (any, error) {
	return c.Invoke(ctx, OpUSBDevices, "")
}
