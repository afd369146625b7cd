package device

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/golang/glog"
	"github.com/gorilla/websocket"

	"github.com/sigflow/sigflow"
	"github.com/sigflow/sigflow/sched"
)

type WsSourceSettings struct {
	WsHandshakeTimeout time.Duration
	AuthTimeout        time.Duration
	ReconnectTimeout   time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
}

func DefaultWsSourceSettings() *WsSourceSettings {
	return &WsSourceSettings{
		WsHandshakeTimeout: 2 * time.Second,
		AuthTimeout:        2 * time.Second,
		ReconnectTimeout:   5 * time.Second,
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       5 * time.Second,
	}
}

type Auth struct {
	ByJwt      string `json:"byJwt,omitempty"`
	AppVersion string `json:"appVersion,omitempty"`
	InstanceId string `json:"instanceId,omitempty"`
}

// DeviceIdentity is the identity claimed by a remote control surface. The
// claims are read without verification, the same way the local end inspects
// any ByJwt; verification belongs to the issuing service.
type DeviceIdentity struct {
	DeviceId   string
	DeviceName string
}

func ParseDeviceIdentity(byJwt string) (*DeviceIdentity, error) {
	parser := gojwt.NewParser()
	token, _, err := parser.ParseUnverified(byJwt, gojwt.MapClaims{})
	if err != nil {
		return nil, err
	}

	claims := token.Claims.(gojwt.MapClaims)

	identity := &DeviceIdentity{}
	if deviceId, ok := claims["device_id"]; ok {
		identity.DeviceId, _ = deviceId.(string)
	}
	if deviceName, ok := claims["device_name"]; ok {
		identity.DeviceName, _ = deviceName.(string)
	}
	return identity, nil
}

// WsSource reads control events from a remote control surface over a
// websocket. Events are JSON ControlEvent records, one per message. The
// source reconnects forever until its context is done.
type WsSource struct {
	ctx    context.Context
	cancel context.CancelFunc

	loop     *sched.Loop
	url      string
	auth     *Auth
	settings *WsSourceSettings

	controls *Controls
}

func NewWsSource(ctx context.Context, loop *sched.Loop, registry *sigflow.Registry, url string, auth *Auth) *WsSource {
	return NewWsSourceWithSettings(ctx, loop, registry, url, auth, DefaultWsSourceSettings())
}

func NewWsSourceWithSettings(
	ctx context.Context,
	loop *sched.Loop,
	registry *sigflow.Registry,
	url string,
	auth *Auth,
	settings *WsSourceSettings,
) *WsSource {
	cancelCtx, cancel := context.WithCancel(ctx)
	source := &WsSource{
		ctx:      cancelCtx,
		cancel:   cancel,
		loop:     loop,
		url:      url,
		auth:     auth,
		settings: settings,
		controls: NewControls(registry),
	}
	go source.run()
	return source
}

func (self *WsSource) Controls() *Controls {
	return self.controls
}

func (self *WsSource) Close() {
	self.cancel()
}

func (self *WsSource) run() {
	if self.auth != nil && self.auth.ByJwt != "" {
		if identity, err := ParseDeviceIdentity(self.auth.ByJwt); err == nil {
			glog.Infof("[ws]device %s (%s)\n", identity.DeviceName, identity.DeviceId)
		}
	}

	for {
		select {
		case <-self.ctx.Done():
			return
		default:
		}

		if err := self.connectAndRead(); err != nil {
			glog.Infof("[ws]connection ended: %s\n", err)
		}

		select {
		case <-self.ctx.Done():
			return
		case <-time.After(self.settings.ReconnectTimeout):
		}
	}
}

func (self *WsSource) connectAndRead() error {
	dialer := &websocket.Dialer{
		HandshakeTimeout: self.settings.WsHandshakeTimeout,
	}
	ws, _, err := dialer.DialContext(self.ctx, self.url, nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	if self.auth != nil {
		authBytes, err := json.Marshal(self.auth)
		if err != nil {
			return err
		}
		ws.SetWriteDeadline(time.Now().Add(self.settings.AuthTimeout))
		if err := ws.WriteMessage(websocket.TextMessage, authBytes); err != nil {
			return err
		}
		ws.SetWriteDeadline(time.Time{})
	}

	glog.V(1).Infof("[ws]connected %s\n", self.url)

	for {
		select {
		case <-self.ctx.Done():
			return nil
		default:
		}

		ws.SetReadDeadline(time.Now().Add(self.settings.ReadTimeout))
		messageType, message, err := ws.ReadMessage()
		if err != nil {
			return err
		}

		switch messageType {
		case websocket.TextMessage, websocket.BinaryMessage:
			event := &ControlEvent{}
			if err := json.Unmarshal(message, event); err != nil {
				glog.V(1).Infof("[ws]drop bad event: %s\n", err)
				continue
			}
			if event.Ctl == "" {
				continue
			}
			self.loop.Post(func() {
				self.controls.apply(event)
			})
		default:
			return fmt.Errorf("unexpected message type %d", messageType)
		}
	}
}
