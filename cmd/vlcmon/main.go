package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/vlc.go/pkg/l1/comm/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/vlc/"
)

func init() {
	if val := os.Getenv("VLC_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		log.Println(mqtt.Describe(topic, payload))
	}))
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
