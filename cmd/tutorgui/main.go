// tutorgui is the desktop rendering surface: a webview over the same served
// UI a browser tab uses. Both surfaces consume identical state snapshots and
// the same resolver endpoints, which is what keeps them pixel-identical.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	webview "github.com/webview/webview_go"
)

var (
	addr  = flag.String("addr", "127.0.0.1:8750", "Engine server address")
	debug = flag.Bool("debug", false, "Enable webview devtools")
)

func main() {
	flag.Parse()

	// Webview requires the main thread.
	runtime.LockOSThread()

	if err := waitForServer(*addr, 15*time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Engine not reachable at %s: %v\n", *addr, err)
		os.Exit(1)
	}

	w := webview.New(*debug)
	defer w.Destroy()

	w.Init(`
		window.addEventListener('contextmenu', function(e) {
			e.preventDefault();
		}, true);
	`)

	w.SetTitle("TutorGo")
	w.SetSize(1024, 768, webview.HintNone)
	w.Navigate("http://" + *addr + "/")
	w.Run()
}

// waitForServer polls until the engine accepts connections or the timeout
// elapses.
func waitForServer(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.DialTimeout("tcp", addr, time.Second)
		if err == nil {
			conn.Close()
			return nil
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(250 * time.Millisecond)
	}
}
