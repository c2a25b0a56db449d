// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// testserver serves the fixture website used by the crawler tests on a local
// port, so the audit pipeline can be exercised end to end without touching a
// real site:
//
//	go run ./cmd/testserver
//	rattler audit http://127.0.0.1:<port>
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentberlin/rattler/testutil"
)

func main() {
	ts := testutil.NewSiteServer(nil)
	defer ts.Close()

	fmt.Printf("Fixture site listening on %s\n", ts.URL)
	fmt.Printf("Try: rattler audit %s\n", ts.URL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down")
}
