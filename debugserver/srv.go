// Command debugserver runs the avatar portal: frames, control api and preview.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/dmisol/animface"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"
)

func main() {
	conf := flag.String("conf", "portal.yaml", "portal config")
	dotenv := flag.String("env", ".env", "env file with livekit secrets, optional")
	udp := flag.Int("udp", 0, "also take the owner's voice as rtp on this udp port")
	flag.Parse()

	if err := godotenv.Load(*dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Println("env", err)
		os.Exit(1)
	}

	ap, err := animface.NewPortal(*conf)
	if err != nil {
		log.Println("portal", err)
		os.Exit(1)
	}
	defer ap.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *udp != 0 {
		if err = ap.ListenUdp(ctx, *udp); err != nil {
			log.Println("udp", err)
			os.Exit(1)
		}
	}

	srv := &fasthttp.Server{Handler: ap.Handler, Name: "animface"}
	go func() {
		<-ctx.Done()
		srv.Shutdown()
	}()
	go func() {
		log.Println("listening", ap.Listen)
		if err := srv.ListenAndServe(ap.Listen); err != nil {
			log.Println("http", err)
			stop()
		}
	}()

	if err = ap.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Println("frames", err)
	}
}
