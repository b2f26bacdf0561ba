package livebox

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogDescriptors(t *testing.T) {
	tests := []struct {
		op       Operation
		endpoint string
		method   string
		auth     bool
		action   bool
		noBody   bool
	}{
		{OpReboot, "NMC:reboot", http.MethodPost, true, true, false},
		{OpDeviceInfo, "DeviceInfo", http.MethodGet, true, false, true},
		{OpWANStatus, "NMC:getWANStatus", http.MethodPost, false, false, false},
		{OpWifiStatus, "NMC/Wifi:get", http.MethodPost, false, false, false},
		{OpWifiSet, "NMC/Wifi:set", http.MethodPost, true, true, false},
		{OpLANIP, "NMC:getLANIP", http.MethodPost, true, false, false},
		{OpStaticLeases, "DHCPv4/Server/Pool/default:getStaticLeases", http.MethodPost, true, false, false},
		{OpPortForwarding, "Firewall:getPortForwarding", http.MethodPost, true, false, false},
		{OpPinhole, "Firewall:getPinhole", http.MethodPost, true, false, false},
		{OpListTrunks, "VoiceService/VoiceApplication:listTrunks", http.MethodPost, false, false, false},
		{OpListHandsets, "VoiceService/VoiceApplication:listHandsets", http.MethodPost, true, false, false},
		{OpVoIPConfig, "NMC:getVoIPConfig", http.MethodPost, true, false, false},
		{OpRing, "VoiceService/VoiceApplication:ring", http.MethodPost, true, true, false},
		{OpDECTPIN, "DECT:getPIN", http.MethodPost, true, false, false},
		{OpDECTVersion, "DECT:getVersion", http.MethodPost, true, false, false},
		{OpDECTStandardVersion, "DECT:getStandardVersion", http.MethodPost, true, false, false},
		{OpDECTRFPI, "DECT:getRFPI", http.MethodPost, true, false, false},
		{OpIPTVStatus, "NMC/OrangeTV:getIPTVStatus", http.MethodPost, false, false, false},
		{OpIPTVConfig, "NMC/OrangeTV:getIPTVConfig", http.MethodPost, true, false, false},
		{OpUsers, "UserManagement:getUsers", http.MethodPost, true, false, false},
		{OpLED, "LED", http.MethodGet, true, false, true},
		{OpDevices, "Devices:get", http.MethodPost, false, false, false},
		{OpLANMIBs, "NeMo/Intf/lan:getMIBs", http.MethodPost, true, false, false},
		{OpDataMIBs, "NeMo/Intf/data:getMIBs", http.MethodPost, true, false, false},
		{OpUSBDevices, "USBHosts:getDevices", http.MethodPost, true, false, false},
	}

	assert.Len(t, Catalog, len(tests))

	for _, tt := range tests {
		t.Run(tt.op.Name, func(t *testing.T) {
			assert.Equal(t, tt.endpoint, tt.op.Endpoint)
			assert.Equal(t, tt.method, tt.op.Method)
			assert.Equal(t, tt.auth, tt.op.Auth)
			assert.Equal(t, tt.action, tt.op.Action)
			if tt.noBody {
				assert.Empty(t, tt.op.DefaultParams)
			} else {
				assert.Equal(t, DefaultParams, tt.op.DefaultParams)
			}

			indexed, ok := Catalog[tt.op.Name]
			require.True(t, ok, "operation missing from catalog")
			assert.Equal(t, tt.op, indexed)
		})
	}
}

func TestEveryAuthOperationIsGuarded(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)
	for _, op := range Catalog {
		if !op.Auth {
			continue
		}
		_, err := client.Invoke(context.Background(), op, "")
		assert.ErrorIs(t, err, ErrAuthRequired, op.Name)
	}
	assert.Zero(t, hits.Load())
}

func TestActionOperationsAnnounceThemselves(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/authenticate", authenticateHandler("ctx123"))
	mux.HandleFunc("/sysbus/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":true}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, log := newTestClient(t, server)
	require.NoError(t, client.Login(context.Background(), "secret"))

	_, err := client.Reboot(context.Background())
	require.NoError(t, err)
	assert.Contains(t, log.Messages(), "reboot triggers a physical action on the device")
}

func TestSetWifiBuildsParameters(t *testing.T) {
	var body string
	var path string
	mux := http.NewServeMux()
	mux.HandleFunc("/authenticate", authenticateHandler("ctx123"))
	mux.HandleFunc("/sysbus/", func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		body = string(buf)
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":true}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, _ := newTestClient(t, server)
	require.NoError(t, client.Login(context.Background(), "secret"))

	_, err := client.SetWifi(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "/sysbus/NMC/Wifi:set", path)
	assert.JSONEq(t, `{"parameters":{"Enable":true,"Status":true}}`, body)

	_, err = client.SetWifi(context.Background(), false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"parameters":{"Enable":false,"Status":false}}`, body)
}

func TestNoBodyOperationsSendNone(t *testing.T) {
	var body string
	var method string
	mux := http.NewServeMux()
	mux.HandleFunc("/authenticate", authenticateHandler("ctx123"))
	mux.HandleFunc("/sysbus/", func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		body = string(buf)
		method = r.Method
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":true}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, _ := newTestClient(t, server)
	require.NoError(t, client.Login(context.Background(), "secret"))

	_, err := client.DeviceInfo(context.Background())
	require.NoError(t, err)
	assert.Empty(t, body)
	assert.Equal(t, http.MethodGet, method)

	_, err = client.LED(context.Background())
	require.NoError(t, err)
	assert.Empty(t, body)
	assert.Equal(t, http.MethodGet, method)
}

func TestDeviceFilters(t *testing.T) {
	var bodies []map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/sysbus/", func(w http.ResponseWriter, r *http.Request) {
		var decoded map[string]any
		json.NewDecoder(r.Body).Decode(&decoded)
		bodies = append(bodies, decoded)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":[]}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, _ := newTestClient(t, server)
	ctx := context.Background()

	_, err := client.Devices(ctx, "")
	require.NoError(t, err)
	_, err = client.ConnectedDevices(ctx)
	require.NoError(t, err)
	_, err = client.DisconnectedDevices(ctx)
	require.NoError(t, err)
	_, err = client.DECTDevices(ctx)
	require.NoError(t, err)

	require.Len(t, bodies, 4)
	assert.Equal(t, map[string]any{}, bodies[0]["parameters"])

	connected := bodies[1]["parameters"].(map[string]any)["expression"].(map[string]any)
	for _, class := range []string{"usbM2M", "usb", "usblogical", "wifi", "eth", "dect"} {
		assert.Contains(t, connected, class)
	}

	notConnected := bodies[2]["parameters"].(map[string]any)
	assert.Equal(t, ".Active==false", notConnected["expression"])
	assert.Equal(t, "down", notConnected["traverse"])

	dect := bodies[3]["parameters"].(map[string]any)["expression"].(map[string]any)
	assert.Contains(t, dect["dect"], "handset")
}

func TestTypedCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"WanState":"up","LinkType":"dsl"}}`)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	type wanStatus struct {
		Data struct {
			WanState string `json:"WanState"`
			LinkType string `json:"LinkType"`
		} `json:"data"`
	}
	status, err := Call[wanStatus](context.Background(), client, OpWANStatus)
	require.NoError(t, err)
	assert.Equal(t, "up", status.Data.WanState)
	assert.Equal(t, "dsl", status.Data.LinkType)
}

func TestTypedCallGuarded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client, _ := newTestClient(t, server)
	_, err := Call[map[string]any](context.Background(), client, OpLANIP)
	assert.ErrorIs(t, err, ErrAuthRequired)
}
