package device

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/sigflow/sigflow"
	"github.com/sigflow/sigflow/sched"
)

type Codec string

const (
	CodecJson    Codec = "json"
	CodecMsgpack Codec = "msgpack"
)

type MqttSourceSettings struct {
	ConnectTimeout       time.Duration
	ConnectRetryInterval time.Duration
	MaxReconnectInterval time.Duration
	Qos                  byte
	Codec                Codec
}

func DefaultMqttSourceSettings() *MqttSourceSettings {
	return &MqttSourceSettings{
		ConnectTimeout:       5 * time.Second,
		ConnectRetryInterval: 2 * time.Second,
		MaxReconnectInterval: 30 * time.Second,
		Qos:                  0,
		Codec:                CodecJson,
	}
}

// MqttSource reads control events published under a topic prefix, one
// control per topic: <prefix>/<ctl>. Payloads are ControlEvent records in
// the configured codec; an event with an empty ctl takes its control id from
// the topic suffix.
type MqttSource struct {
	loop     *sched.Loop
	broker   string
	clientId string
	prefix   string
	settings *MqttSourceSettings

	controls *Controls
	client   mqtt.Client
}

func NewMqttSource(loop *sched.Loop, registry *sigflow.Registry, broker string, clientId string, prefix string) *MqttSource {
	return NewMqttSourceWithSettings(loop, registry, broker, clientId, prefix, DefaultMqttSourceSettings())
}

func NewMqttSourceWithSettings(
	loop *sched.Loop,
	registry *sigflow.Registry,
	broker string,
	clientId string,
	prefix string,
	settings *MqttSourceSettings,
) *MqttSource {
	return &MqttSource{
		loop:     loop,
		broker:   broker,
		clientId: clientId,
		prefix:   strings.TrimSuffix(prefix, "/"),
		settings: settings,
		controls: NewControls(registry),
	}
}

func (self *MqttSource) Controls() *Controls {
	return self.controls
}

// Connect establishes the broker connection and subscribes the prefix.
func (self *MqttSource) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", self.broker))
	opts.SetClientID(self.clientId)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(self.settings.ConnectRetryInterval)
	opts.SetMaxReconnectInterval(self.settings.MaxReconnectInterval)

	opts.OnConnect = func(c mqtt.Client) {
		glog.Infof("[mqtt]connected %s\n", self.broker)
		topic := self.prefix + "/#"
		token := c.Subscribe(topic, self.settings.Qos, self.receive)
		token.Wait()
		if err := token.Error(); err != nil {
			glog.Infof("[mqtt]subscribe %s failed: %s\n", topic, err)
		}
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		glog.Infof("[mqtt]connection lost, will reconnect: %s\n", err)
	}

	self.client = mqtt.NewClient(opts)

	token := self.client.Connect()
	if !token.WaitTimeout(self.settings.ConnectTimeout) {
		return fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}
	return nil
}

func (self *MqttSource) Close() {
	if self.client != nil {
		self.client.Disconnect(250)
	}
}

func (self *MqttSource) receive(_ mqtt.Client, message mqtt.Message) {
	event, err := decodeControlEvent(message.Payload(), self.settings.Codec)
	if err != nil {
		glog.V(1).Infof("[mqtt]drop bad event on %s: %s\n", message.Topic(), err)
		return
	}
	if event.Ctl == "" {
		event.Ctl = strings.TrimPrefix(strings.TrimPrefix(message.Topic(), self.prefix), "/")
	}
	if event.Ctl == "" {
		return
	}
	self.loop.Post(func() {
		self.controls.apply(event)
	})
}

func decodeControlEvent(payload []byte, codec Codec) (*ControlEvent, error) {
	event := &ControlEvent{}
	switch codec {
	case CodecMsgpack:
		if err := msgpack.Unmarshal(payload, event); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(payload, event); err != nil {
			return nil, err
		}
	}
	return event, nil
}
