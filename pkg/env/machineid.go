package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// MachineID retrieves an ID identifying the host machine in reports. The
// host name is used when the machine has no ID.
func MachineID() string {
	id, err := machineid.ProtectedID("metal")
	if err == nil {
		return id
	}
	glog.V(2).Infof("env: machine id: %v", err)
	name, _ := os.Hostname()
	return name
}
