// mepctl is a demo CLI client for the sign protocol codec: it opens a
// transport, sends one of a handful of info requests, and prints the
// parsed response. It optionally publishes the response to Redis and
// records the session as CBOR for offline replay.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/aesysnet/mepcodec/pkg/frame"
	"github.com/aesysnet/mepcodec/pkg/mep"
	"github.com/aesysnet/mepcodec/pkg/proto"
	"github.com/aesysnet/mepcodec/pkg/redis"
	"github.com/aesysnet/mepcodec/pkg/transport"
)

var (
	serialDevice = flag.String("serial", "/dev/ttyUSB0", "Serial device path")
	baudRate     = flag.Int("baud", 9600, "Serial baud rate")
	frameKind    = flag.String("kind", "uptb", "Frame kind: pptp, uptb, uptb_nostx")
	request      = flag.String("request", "clock", "Info request: clock, device, status, diagnostic")
	tranId       = flag.Int("tran-id", 1, "Transaction id to send")
	timeout      = flag.Duration("timeout", 2*time.Second, "Time to wait for a response")

	redisAddr = flag.String("redis-addr", "", "Redis address; when set, the parsed response is published")
	redisPass = flag.String("redis-pass", "", "Redis password")
	redisDB   = flag.Int("redis-db", 0, "Redis database number")

	recordPath = flag.String("record", "", "Append each sent/received frame to this CBOR session file")
)

// sessionEvent is one CBOR-encoded entry in a -record capture file.
type sessionEvent struct {
	Direction string    `cbor:"direction"`
	Timestamp time.Time `cbor:"timestamp"`
	Raw       []byte    `cbor:"raw"`
}

func parseKind(s string) (proto.FrameKind, error) {
	switch s {
	case "pptp":
		return proto.PPTP, nil
	case "uptb":
		return proto.UPTB, nil
	case "uptb_nostx":
		return proto.UPTBNoSTX, nil
	default:
		return 0, fmt.Errorf("unknown frame kind %q", s)
	}
}

func buildRequest(kind proto.FrameKind, name string, tran proto.TransactionId) ([]byte, error) {
	switch name {
	case "clock":
		return mep.ClockInfo(kind, tran)
	case "device":
		return mep.DeviceInfo(kind, tran)
	case "status":
		return mep.DevStatusInfo(kind, tran)
	case "diagnostic":
		return mep.DiagnosticInfo(kind, tran)
	default:
		return nil, fmt.Errorf("unknown request %q", name)
	}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	kind, err := parseKind(*frameKind)
	if err != nil {
		log.Fatalf("mepctl: %v", err)
	}

	var recorder *os.File
	if *recordPath != "" {
		f, err := os.OpenFile(*recordPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("mepctl: failed to open record file: %v", err)
		}
		defer f.Close()
		recorder = f
	}

	var redisClient *redis.Client
	if *redisAddr != "" {
		redisClient, err = redis.New(*redisAddr, *redisPass, *redisDB)
		if err != nil {
			log.Fatalf("mepctl: failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		log.Printf("Connected to redis at %s", *redisAddr)
	}

	log.Printf("Opening %s at %d baud (%s framing)", *serialDevice, *baudRate, *frameKind)
	link, err := transport.Open(*serialDevice, *baudRate, kind)
	if err != nil {
		log.Fatalf("mepctl: failed to open transport: %v", err)
	}
	defer link.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	raw, err := buildRequest(kind, *request, proto.TransactionId(*tranId))
	if err != nil {
		log.Fatalf("mepctl: %v", err)
	}

	if err := link.WriteFrame(raw); err != nil {
		log.Fatalf("mepctl: write failed: %v", err)
	}
	recordEvent(recorder, "tx", raw)
	log.Printf("Sent %q request (tranId=%d)", *request, *tranId)

	result := make(chan *mep.Response, 1)
	errCh := make(chan error, 1)
	go func() {
		_, payload, echoedTran, err := link.ReadFrame()
		if err != nil {
			errCh <- err
			return
		}
		rebuilt, err := rebuildDatFrame(kind, echoedTran, payload)
		if err != nil {
			errCh <- err
			return
		}
		recordEvent(recorder, "rx", rebuilt)

		resp, err := mep.ParseResponse(kind, rebuilt)
		if err != nil {
			errCh <- err
			return
		}
		result <- resp
	}()

	select {
	case resp := <-result:
		printResponse(resp)
		if redisClient != nil {
			publishResponse(redisClient, resp)
		}
	case err := <-errCh:
		log.Fatalf("mepctl: failed to read response: %v", err)
	case <-time.After(*timeout):
		log.Fatalf("mepctl: timed out waiting for a response")
	case <-sigCh:
		log.Printf("Interrupted, shutting down")
	}
}

// rebuildDatFrame re-wraps a decoded DAT payload the way pkg/frame expects,
// since ReadFrame already stripped the envelope this process needs to hand
// back to mep.ParseResponse for uniform parsing/validation.
func rebuildDatFrame(kind proto.FrameKind, tran proto.TransactionId, payload []byte) ([]byte, error) {
	return frame.Build(kind, proto.AddressBroadcast, tran, proto.CmdDat, payload)
}

func printResponse(resp *mep.Response) {
	fmt.Printf("tranId=%d groupType=0x%04x\n", resp.TranId, resp.GroupType)
	for _, item := range resp.Items {
		fmt.Printf("  code=0x%04x type=%d flags=%d value=% x\n", item.Code, item.Type, item.Flags, item.Value)
	}
}

func publishResponse(c *redis.Client, resp *mep.Response) {
	key := fmt.Sprintf("mep:response:0x%04x", resp.GroupType)
	for _, item := range resp.Items {
		field := fmt.Sprintf("0x%04x", item.Code)
		value := fmt.Sprintf("% x", item.Value)
		if err := c.WriteAndPublishString(key, field, value); err != nil {
			log.Printf("mepctl: redis publish failed for %s: %v", field, err)
		}
	}
}

func recordEvent(f *os.File, direction string, raw []byte) {
	if f == nil {
		return
	}
	enc, err := cbor.Marshal(sessionEvent{Direction: direction, Timestamp: time.Now(), Raw: raw})
	if err != nil {
		log.Printf("mepctl: failed to encode session event: %v", err)
		return
	}
	if _, err := f.Write(enc); err != nil {
		log.Printf("mepctl: failed to append session event: %v", err)
	}
}
