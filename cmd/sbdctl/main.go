package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"
	"unicode"

	"github.com/kr/pretty"

	"example.com/sbdgate/internal/mt"
	"example.com/sbdgate/internal/report"
	"example.com/sbdgate/internal/sbd"
	"example.com/sbdgate/internal/storage"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	cmd := os.Args[1]
	switch cmd {
	case "read":
		readCmd(os.Args[2:])
	case "list":
		listCmd(os.Args[2:])
	case "location":
		locationCmd(os.Args[2:])
	case "mt":
		mtCmd(os.Args[2:])
	case "report":
		reportCmd(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Printf(`sbdctl %s (built %s) <command> [options]

Commands:
  read      --in <file.sbd> [-v]
  list      --root <storage dir> [--imei <imei>]
  location  --in <file.sbd>
  mt        --imei <imei> --id <client message id> --out <file> [--payload <text> | --payload-file <file>] [--flush-queue] [--ring-alert] [--update-location] [--high-priority] [--assign-mtmsn]
  report    --root <storage dir> [--pdf <file>] [--json <file>]
`, version, buildDate)
}

func readCmd(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	in := fs.String("in", "", "input .sbd file")
	verbose := fs.Bool("v", false, "dump the full decoded message")
	fs.Parse(args)

	if *in == "" {
		fmt.Println("required: --in")
		os.Exit(1)
	}
	message, err := sbd.FromPath(*in)
	if err != nil {
		fmt.Println("read message:", err)
		os.Exit(1)
	}
	header := message.Header()
	fmt.Printf("IMEI:    %s\n", message.IMEI())
	fmt.Printf("MOMSN:   %d\n", header.MOMSN)
	fmt.Printf("MTMSN:   %d\n", header.MTMSN)
	fmt.Printf("Status:  %s\n", header.SessionStatus)
	fmt.Printf("Session: %s\n", header.TimeOfSession.Format(time.RFC3339))
	fmt.Printf("Payload: %s\n", formatPayload(message.Payload()))
	if *verbose {
		pretty.Printf("\n%# v\n", message)
	}
}

func formatPayload(payload sbd.Payload) string {
	printable := true
	for _, b := range payload {
		if b > unicode.MaxASCII || (!unicode.IsPrint(rune(b)) && b != '\n' && b != '\t') {
			printable = false
			break
		}
	}
	if printable {
		return fmt.Sprintf("%q (%d bytes)", string(payload), len(payload))
	}
	return fmt.Sprintf("% x (%d bytes)", []byte(payload), len(payload))
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	root := fs.String("root", "", "storage root directory")
	imei := fs.String("imei", "", "only this device")
	fs.Parse(args)

	if *root == "" {
		fmt.Println("required: --root")
		os.Exit(1)
	}
	store, err := storage.OpenFilesystem(*root)
	if err != nil {
		fmt.Println("open storage:", err)
		os.Exit(1)
	}
	var messages []*sbd.Message
	if *imei != "" {
		messages, err = store.MessagesFromIMEI(*imei)
	} else {
		messages, err = store.Messages()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "IMEI\tSESSION\tSTATUS\tMOMSN\tBYTES")
	for _, m := range messages {
		header := m.Header()
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			m.IMEI(),
			header.TimeOfSession.Format("2006-01-02 15:04:05"),
			header.SessionStatus,
			header.MOMSN,
			len(m.Payload()),
		)
	}
	w.Flush()
}

func locationCmd(args []string) {
	fs := flag.NewFlagSet("location", flag.ExitOnError)
	in := fs.String("in", "", "input .sbd file")
	fs.Parse(args)

	if *in == "" {
		fmt.Println("required: --in")
		os.Exit(1)
	}
	message, err := sbd.FromPath(*in)
	if err != nil {
		fmt.Println("read message:", err)
		os.Exit(1)
	}
	location, ok, err := message.Location()
	if err != nil {
		fmt.Println("decode location:", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Println("message carries no location")
		os.Exit(1)
	}
	fmt.Printf("Latitude:  %.6f\n", location.LatitudeDeg())
	fmt.Printf("Longitude: %.6f\n", location.LongitudeDeg())
	fmt.Printf("CEP:       %d km\n", location.CEPKm)
}

func mtCmd(args []string) {
	fs := flag.NewFlagSet("mt", flag.ExitOnError)
	imei := fs.String("imei", "", "destination IMEI (15 digits)")
	id := fs.Uint64("id", 0, "client message id")
	payloadText := fs.String("payload", "", "payload as text")
	payloadFile := fs.String("payload-file", "", "payload from a file")
	out := fs.String("out", "", "output file")
	flushQueue := fs.Bool("flush-queue", false, "flush the device's MT queue")
	ringAlert := fs.Bool("ring-alert", false, "send a ring alert with no payload")
	updateLocation := fs.Bool("update-location", false, "update the device location")
	highPriority := fs.Bool("high-priority", false, "place the payload at the front of the queue")
	assignMTMSN := fs.Bool("assign-mtmsn", false, "use the client message id as MTMSN")
	fs.Parse(args)

	if *imei == "" || *out == "" {
		fmt.Println("required: --imei and --out")
		os.Exit(1)
	}
	if len(*imei) != 15 {
		fmt.Println("imei must be 15 characters")
		os.Exit(1)
	}
	if *id > math.MaxUint32 {
		fmt.Println("--id must fit in 32 bits")
		os.Exit(1)
	}
	if *payloadText != "" && *payloadFile != "" {
		fmt.Println("--payload and --payload-file cannot be used together")
		os.Exit(1)
	}
	payload := []byte(*payloadText)
	if *payloadFile != "" {
		var err error
		payload, err = os.ReadFile(*payloadFile)
		if err != nil {
			fmt.Println("read payload:", err)
			os.Exit(1)
		}
	}

	var imeiBytes [15]byte
	copy(imeiBytes[:], *imei)
	header := mt.Header{
		ClientMsgID: uint32(*id),
		IMEI:        imeiBytes,
		Flags: mt.DispositionFlags{
			FlushQueue:     *flushQueue,
			SendRingAlert:  *ringAlert,
			UpdateLocation: *updateLocation,
			HighPriority:   *highPriority,
			AssignMTMSN:    *assignMTMSN,
		},
	}
	message := mt.NewMessage(header, mt.Payload(payload))

	f, err := os.Create(*out)
	if err != nil {
		fmt.Println("create output:", err)
		os.Exit(1)
	}
	if err := message.WriteTo(f); err != nil {
		f.Close()
		fmt.Println("write message:", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Println("close output:", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d payload bytes, flags %d)\n", *out, len(payload), header.Flags.Encode())
}

func reportCmd(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	root := fs.String("root", "", "storage root directory")
	pdfOut := fs.String("pdf", "", "PDF output file")
	jsonOut := fs.String("json", "", "JSON output file")
	fs.Parse(args)

	if *root == "" {
		fmt.Println("required: --root")
		os.Exit(1)
	}
	if *pdfOut == "" && *jsonOut == "" {
		fmt.Println("required: --pdf or --json")
		os.Exit(1)
	}
	store, err := storage.OpenFilesystem(*root)
	if err != nil {
		fmt.Println("open storage:", err)
		os.Exit(1)
	}
	rep, err := report.Build(store)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	if *jsonOut != "" {
		if err := report.SaveDeliveryJSON(rep, *jsonOut); err != nil {
			fmt.Println("save json:", err)
			os.Exit(1)
		}
	}
	if *pdfOut != "" {
		if err := report.SaveDeliveryPDF(rep, *pdfOut); err != nil {
			fmt.Println("save pdf:", err)
			os.Exit(1)
		}
	}
	summary := make([]string, 0, len(rep.Devices))
	for _, device := range rep.Devices {
		summary = append(summary, fmt.Sprintf("%s (%d)", device.IMEI, device.Messages))
	}
	fmt.Printf("%d messages across %d devices: %s\n", rep.Messages, len(rep.Devices), strings.Join(summary, ", "))
}
