// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package main

import (
	"github.com/JSalazar88/swotrace/dump"
)

func main() {
	dump.Main()
}
