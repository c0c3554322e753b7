/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Command keyforgectl drives the bootstrap pipeline and inspects a
// completed run's certificates, NATS hierarchy, graph projection, and
// policy bindings.
package main

func main() {
	Execute()
}
