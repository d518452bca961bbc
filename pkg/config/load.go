package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// File is the parsed contents of an INI-format settings file: one
// [link]/[app]/[master] or [outstation] section plus zero or more
// [association.<name>] sections, one per association the master
// maintains. Grounded on pkg/od/parser.go's EDS loader, which likewise
// walks ini.Load's sections and builds typed config objects key by key
// instead of handing callers the raw *ini.File.
type File struct {
	Link   LinkConfig
	App    AppConfig
	Master *MasterConfig
	Outstation *OutstationConfig

	// Associations is keyed by the <name> in each [association.<name>]
	// section, present only when Master is non-nil.
	Associations map[string]AssociationConfig
}

// Load reads an INI-format settings file the same way pkg/od/parser.go
// loads an EDS file: ini.Load(source), then walk sections pulling typed
// fields out with section.Key(...).String()/.Value(). source may be a
// path, []byte, or io.Reader per ini.Load's own contract.
func Load(source any) (*File, error) {
	raw, err := ini.Load(source)
	if err != nil {
		return nil, fmt.Errorf("[CONFIG] load: %w", err)
	}

	link, err := parseLinkSection(raw.Section("link"))
	if err != nil {
		return nil, err
	}
	app, err := parseAppSection(raw.Section("app"))
	if err != nil {
		return nil, err
	}

	f := &File{Link: link, App: app}

	if raw.HasSection("outstation") {
		out, err := parseOutstationSection(raw.Section("outstation"), link, app)
		if err != nil {
			return nil, err
		}
		f.Outstation = &out
	}

	if raw.HasSection("master") {
		m, err := parseMasterSection(raw.Section("master"), link, app)
		if err != nil {
			return nil, err
		}
		f.Master = &m
		f.Associations = make(map[string]AssociationConfig)
		for _, section := range raw.Sections() {
			name, ok := associationSectionName(section.Name())
			if !ok {
				continue
			}
			assoc, err := parseAssociationSection(section)
			if err != nil {
				return nil, fmt.Errorf("[CONFIG] association %q: %w", name, err)
			}
			f.Associations[name] = assoc
		}
	}

	return f, nil
}

func associationSectionName(sectionName string) (string, bool) {
	const prefix = "association."
	if !strings.HasPrefix(sectionName, prefix) {
		return "", false
	}
	return strings.TrimPrefix(sectionName, prefix), true
}

func parseLinkSection(section *ini.Section) (LinkConfig, error) {
	local, err := section.Key("local_address").Uint()
	if err != nil {
		return LinkConfig{}, fmt.Errorf("[CONFIG] link.local_address: %w", err)
	}
	remote, err := section.Key("remote_address").Uint()
	if err != nil {
		return LinkConfig{}, fmt.Errorf("[CONFIG] link.remote_address: %w", err)
	}
	useConfirmed, _ := section.Key("use_confirmed_data_frames").Bool()
	return NewLinkConfig(uint16(local), uint16(remote), useConfirmed)
}

func parseAppSection(section *ini.Section) (AppConfig, error) {
	app := DefaultAppConfig()
	if section == nil {
		return app, nil
	}
	if key := section.Key("max_fragment_size"); key.String() != "" {
		n, err := key.Int()
		if err != nil {
			return AppConfig{}, fmt.Errorf("[CONFIG] app.max_fragment_size: %w", err)
		}
		size, err := NewBufferSize(n)
		if err != nil {
			return AppConfig{}, fmt.Errorf("[CONFIG] app.max_fragment_size: %w", err)
		}
		app.MaxFragmentSize = size
	}
	if key := section.Key("rx_buffer_size"); key.String() != "" {
		n, err := key.Int()
		if err != nil {
			return AppConfig{}, fmt.Errorf("[CONFIG] app.rx_buffer_size: %w", err)
		}
		size, err := NewBufferSize(n)
		if err != nil {
			return AppConfig{}, fmt.Errorf("[CONFIG] app.rx_buffer_size: %w", err)
		}
		app.RxBufferSize = size
	}
	return app, nil
}

func parseDurationKey(section *ini.Section, key string, fallback time.Duration) (time.Duration, error) {
	value := section.Key(key).String()
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("[CONFIG] %s: %w", key, err)
	}
	return d, nil
}

func parseOutstationSection(section *ini.Section, link LinkConfig, app AppConfig) (OutstationConfig, error) {
	out := NewOutstationConfig(link)
	out.App = app

	confirmTimeout, err := parseDurationKey(section, "confirm_timeout", DefaultConfirmTimeout)
	if err != nil {
		return OutstationConfig{}, err
	}
	if out.ConfirmTimeout, err = NewTimeout(confirmTimeout); err != nil {
		return OutstationConfig{}, fmt.Errorf("[CONFIG] outstation.confirm_timeout: %w", err)
	}

	selectTimeout, err := parseDurationKey(section, "select_timeout", DefaultSelectTimeout)
	if err != nil {
		return OutstationConfig{}, err
	}
	if out.SelectTimeout, err = NewTimeout(selectTimeout); err != nil {
		return OutstationConfig{}, fmt.Errorf("[CONFIG] outstation.select_timeout: %w", err)
	}

	out.Features.SelfAddress = section.Key("self_address").MustBool(out.Features.SelfAddress)
	out.Features.Broadcast = section.Key("broadcast").MustBool(out.Features.Broadcast)
	out.Features.Unsolicited = section.Key("unsolicited").MustBool(out.Features.Unsolicited)

	if n, err := strconv.Atoi(section.Key("max_read_request_headers").String()); err == nil {
		out.MaxReadRequestHeaders = uint16(n)
	}
	if out.MaxReadRequestHeaders < DefaultMaxReadRequestHeaders {
		out.MaxReadRequestHeaders = DefaultMaxReadRequestHeaders
	}

	return out, nil
}

func parseMasterSection(section *ini.Section, link LinkConfig, app AppConfig) (MasterConfig, error) {
	m := NewMasterConfig(link)
	m.App = app

	responseTimeout, err := parseDurationKey(section, "response_timeout", DefaultResponseTimeout)
	if err != nil {
		return MasterConfig{}, err
	}
	if m.ResponseTimeout, err = NewTimeout(responseTimeout); err != nil {
		return MasterConfig{}, fmt.Errorf("[CONFIG] master.response_timeout: %w", err)
	}
	return m, nil
}

func parseAssociationSection(section *ini.Section) (AssociationConfig, error) {
	outAddr, err := section.Key("outstation_address").Uint()
	if err != nil {
		return AssociationConfig{}, fmt.Errorf("outstation_address: %w", err)
	}
	addr, err := NewLinkAddress(uint16(outAddr))
	if err != nil {
		return AssociationConfig{}, err
	}
	assoc := NewAssociationConfig(addr)

	if raw := section.Key("event_classes").String(); raw != "" {
		classes, err := parseClassList(raw)
		if err != nil {
			return AssociationConfig{}, fmt.Errorf("event_classes: %w", err)
		}
		assoc.EventClasses = classes
	}

	if strings.EqualFold(section.Key("time_sync_mode").String(), "lan") {
		assoc.TimeSyncMode = TimeSyncLAN
	}

	assoc.AutoTasks.IntegrityScanOnStartup = section.Key("integrity_scan_on_startup").MustBool(assoc.AutoTasks.IntegrityScanOnStartup)
	assoc.AutoTasks.IntegrityScanOnDeviceRestart = section.Key("integrity_scan_on_device_restart").MustBool(assoc.AutoTasks.IntegrityScanOnDeviceRestart)
	assoc.AutoTasks.EnableUnsolicitedOnStartup = section.Key("enable_unsolicited_on_startup").MustBool(assoc.AutoTasks.EnableUnsolicitedOnStartup)
	assoc.AutoTasks.TimeSyncOnStartup = section.Key("time_sync_on_startup").MustBool(assoc.AutoTasks.TimeSyncOnStartup)

	return assoc, nil
}

func parseClassList(raw string) ([]uint8, error) {
	parts := strings.Split(raw, ",")
	classes := make([]uint8, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return nil, err
		}
		classes = append(classes, uint8(n))
	}
	return classes, nil
}
