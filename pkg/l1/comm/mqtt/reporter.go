package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/vlc.go/pkg/l1/report"
)

// Topics published under <station>/.
const (
	MetaTopic   = "meta"
	StateTopic  = "state"
	ReportTopic = "report"
)

// PublishTimeout bounds the wait for a QoS 1 publish.
const PublishTimeout = 2 * time.Second

// Meta describes a station. It is published retained and cleared by the
// will when the station goes away.
type Meta struct {
	Mode     string `json:"mode"`
	Scheme   string `json:"scheme"`
	LineCode bool   `json:"line-code,omitempty"`
	Listen   string `json:"listen,omitempty"`
}

// Publisher publishes to topics, implemented by Queue.
type Publisher interface {
	PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token
}

// StationTopic returns the topic of kind for a station.
func StationTopic(station, kind string) string {
	return station + "/" + kind
}

// Reporter publishes state changes and session reports of a station.
// It implements transceiver.StateNotifier.
type Reporter struct {
	Station string
	Meta    Meta

	pub      Publisher
	queue    *Queue
	metaJSON []byte
}

// NewReporter creates a Reporter connected to a broker.
func NewReporter(brokerURL, station string, meta Meta) (*Reporter, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+StationTopic(station, MetaTopic), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("vlc:" + station)
	}
	q := NewQueue(opts, topicPrefix)
	r := NewReporterWith(q, station, meta)
	r.queue = q
	q.OnConnect = func(*Queue) { r.publishMeta(r.metaJSON) }
	return r, nil
}

// NewReporterWith creates a Reporter over an existing Publisher.
func NewReporterWith(pub Publisher, station string, meta Meta) *Reporter {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		panic(err)
	}
	return &Reporter{Station: station, Meta: meta, pub: pub, metaJSON: metaJSON}
}

// Name implements framework.Named.
func (r *Reporter) Name() string {
	return "mqtt-reporter"
}

// Run implements framework.Runnable. The meta is cleared on exit.
func (r *Reporter) Run(ctx context.Context) error {
	if r.queue != nil {
		r.queue.Connect()
	} else {
		r.publishMeta(r.metaJSON)
	}
	<-ctx.Done()
	r.publishMeta(nil)
	if r.queue != nil {
		r.queue.Close()
	}
	return nil
}

// StateChanged implements transceiver.StateNotifier.
func (r *Reporter) StateChanged(ctx context.Context, rep *report.Report) {
	r.pub.PubWith(StationTopic(r.Station, StateTopic), []byte(rep.State), 0, true)
	if !rep.Final() {
		return
	}
	payload, err := rep.Marshal()
	if err != nil {
		glog.Errorf("mqtt: encode report: %v", err)
		return
	}
	r.wait("report", r.pub.PubWith(StationTopic(r.Station, ReportTopic), payload, 1, false))
}

func (r *Reporter) publishMeta(payload []byte) {
	r.wait("meta", r.pub.PubWith(StationTopic(r.Station, MetaTopic), payload, 1, true))
}

func (r *Reporter) wait(what string, token paho.Token) {
	if !token.WaitTimeout(PublishTimeout) {
		glog.Warningf("mqtt: publish %s timed out", what)
		return
	}
	if err := token.Error(); err != nil {
		glog.Warningf("mqtt: publish %s: %v", what, err)
	}
}

// Describe renders a message published by a Reporter for display.
func Describe(topic string, payload []byte) string {
	kind := topic[strings.LastIndex(topic, "/")+1:]
	switch kind {
	case MetaTopic:
		if len(payload) == 0 {
			return topic + ": offline"
		}
		return fmt.Sprintf("%s: %s", topic, payload)
	case StateTopic:
		return fmt.Sprintf("%s: %s", topic, payload)
	case ReportTopic:
		rep, err := report.Unmarshal(payload)
		if err != nil {
			return fmt.Sprintf("%s: bad report: %v", topic, err)
		}
		return fmt.Sprintf("%s: %s", topic, rep)
	}
	return fmt.Sprintf("%s: %d bytes", topic, len(payload))
}
