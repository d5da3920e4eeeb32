package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/kiss.go/pkg/port/mqtt"
	"github.com/robotalks/kiss.go/pkg/telemetry"
)

var (
	mqttURL = "mqtt://localhost:1883/kiss/"
)

func init() {
	if val := os.Getenv("KISS_MQTT_URL"); val != "" {
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
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub(telemetry.TopicRoot+"/+/+", mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/meta") {
			meta, err := telemetry.DecodeMeta(payload)
			if err != nil {
				log.Printf("%s: bad meta: %v", topic, err)
				return
			}
			log.Printf("%s: %s", topic, meta.String())
			return
		}
		ev, err := telemetry.DecodeEvent(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		if ev.Stats != nil {
			log.Printf("%s: %s", topic, ev.Stats.String())
			return
		}
		log.Printf("%s: [%s] %s", topic, ev.KindName(), ev.String())
	}))
	<-(chan struct{})(nil)
}
